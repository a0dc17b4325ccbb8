package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Page is one page of a list endpoint.
type Page[T any] struct {
	Rows  []T
	Count int
}

// listEnvelope is the { response: { rows, count } } shape every list
// endpoint returns.
type listEnvelope struct {
	Response *struct {
		Rows  json.RawMessage `json:"rows"`
		Count Amount          `json:"count"`
	} `json:"response"`
}

func decodePage[T any](env listEnvelope) (Page[T], error) {
	if env.Response == nil || len(env.Response.Rows) == 0 {
		return Page[T]{}, ErrUnexpectedShape
	}
	var rows []T
	if !bytes.Equal(bytes.TrimSpace(env.Response.Rows), []byte("null")) {
		if err := json.Unmarshal(env.Response.Rows, &rows); err != nil {
			return Page[T]{}, fmt.Errorf("%w: rows: %v", ErrUnexpectedShape, err)
		}
	}
	count := int(env.Response.Count)
	if count < 0 {
		count = 0
	}
	return Page[T]{Rows: rows, Count: count}, nil
}

// MutationResult is what mutating endpoints answer with.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Err converts an unsuccessful result into a *MutationError.
func (r MutationResult) Err() error {
	if r.Success {
		return nil
	}
	return &MutationError{Message: r.Message}
}

// ListParams are the query parameters list endpoints accept.
type ListParams struct {
	Search  string
	Limit   int
	Offset  int
	Filters map[string]string
}

// Values encodes p, omitting empty search and filter values.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(p.Offset))
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
