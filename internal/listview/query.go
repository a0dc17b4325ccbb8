// Package listview implements the state behind every paginated list
// screen: debounced search, named filters, offset pagination, a request
// sequence guard and the location string the state is mirrored into.
package listview

import (
	"fmt"
	"maps"
	"net/url"
	"strconv"
)

// Query parameter names used in locations.
const (
	KeySearch = "search"
	KeyPage   = "page"
	KeyLimit  = "limit"
)

// DefaultPageSize is used when a screen does not configure one.
const DefaultPageSize = 10

// PageSizes are the allowed rows-per-page values.
var PageSizes = []int{5, 10, 15, 20}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// Query is the user-controlled part of a list screen's state. Search
// is the debounced search text, not the raw input.
type Query struct {
	Search   string
	Page     int
	PageSize int
	Filters  map[string]string
}

// NewQuery returns page 1 of an unfiltered listing.
func NewQuery(pageSize int) Query {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return Query{Page: 1, PageSize: pageSize, Filters: map[string]string{}}
}

// Offset is the number of rows skipped before the current page.
func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Filter returns the value of a named filter, or "".
func (q Query) Filter(key string) string {
	return q.Filters[key]
}

// Clone returns a copy that shares no map with q. Empty filter values
// are dropped.
func (q Query) Clone() Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			out.Filters[k] = v
		}
	}
	return out
}

// Equal compares two queries, treating a missing filter and an empty
// one as the same.
func (q Query) Equal(o Query) bool {
	if q.Search != o.Search || q.Page != o.Page || q.PageSize != o.PageSize {
		return false
	}
	return maps.Equal(q.Clone().Filters, o.Clone().Filters)
}

// Values encodes q as query parameters. Empty values are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(KeySearch, q.Search)
	}
	if q.Page > 0 {
		v.Set(KeyPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set(KeyLimit, strconv.Itoa(q.PageSize))
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Location renders q as path?query.
func (q Query) Location(path string) string {
	enc := q.Values().Encode()
	if enc == "" {
		return path
	}
	return path + "?" + enc
}

// ParseQuery reads a Query from query parameters. The search text is
// kept as written. Unknown keys are ignored; invalid page or limit
// values fall back to defaults.
func ParseQuery(v url.Values, filterKeys []string, defaultPageSize int) Query {
	q := NewQuery(defaultPageSize)
	q.Search = v.Get(KeySearch)
	if page, err := strconv.Atoi(v.Get(KeyPage)); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(v.Get(KeyLimit)); err == nil && ValidPageSize(size) {
		q.PageSize = size
	}
	for _, key := range filterKeys {
		if val := v.Get(key); val != "" {
			q.Filters[key] = val
		}
	}
	return q
}

// ParseLocation splits a location into its path and Query.
func ParseLocation(loc string, filterKeys []string, defaultPageSize int) (string, Query, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", Query{}, fmt.Errorf("parse location %q: %w", loc, err)
	}
	return u.Path, ParseQuery(u.Query(), filterKeys, defaultPageSize), nil
}
