package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedShape is returned when a list response lacks response.rows.
	ErrUnexpectedShape = errors.New("unexpected response shape")
	// ErrNotSuccessful is returned when a mutating endpoint answers
	// without success: true, even on HTTP 200.
	ErrNotSuccessful = errors.New("request was not successful")
	// ErrNoToken is returned by Login when the response carries no token.
	ErrNoToken = errors.New("login response did not include a token")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Payload []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: payloadMessage(body), Payload: body}
}

// maxPayloadMessage caps a raw error body, counted in runes.
const maxPayloadMessage = 200

// payloadMessage pulls a human readable message out of an error body,
// falling back to the raw text.
func payloadMessage(body []byte) string {
	var p struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &p); err == nil {
		if p.Message != "" {
			return p.Message
		}
		if p.Error != "" {
			return p.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	if r := []rune(msg); len(r) > maxPayloadMessage {
		msg = string(r[:maxPayloadMessage])
	}
	return msg
}

// MutationError carries the backend's message for an unsuccessful
// mutation. It unwraps to ErrNotSuccessful.
type MutationError struct {
	Message string
}

func (e *MutationError) Error() string {
	if e.Message == "" {
		return ErrNotSuccessful.Error()
	}
	return e.Message
}

func (e *MutationError) Unwrap() error { return ErrNotSuccessful }

// UserMessage reduces err to a short string for inline display.
// Backend-reported messages are shown as-is; transport and shape
// failures collapse to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != "empty response" {
		return apiErr.Message
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) && mutErr.Message != "" {
		return mutErr.Message
	}
	return fallback
}
