// Package screens declares the list screens: where each lives, which
// filters it takes, how it fetches and how its rows render as cells.
package screens

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/export"
	"github.com/sadopc/fitadmin/internal/listview"
)

// Column renders one field of a row.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Info is the type-independent part of a screen definition.
type Info struct {
	Name       string
	Title      string
	Path       string
	FilterKeys []string
	Debounce   time.Duration
}

// Def is a list screen over rows of type T.
type Def[T any] struct {
	Info
	Columns []Column[T]
	Fetch   func(c *api.Client) listview.FetchFunc[T]
}

// Meta returns the screen's Info.
func (d Def[T]) Meta() Info { return d.Info }

// Headers returns the column titles, preceded by the serial column.
func (d Def[T]) Headers() []string {
	h := make([]string, 0, len(d.Columns)+1)
	h = append(h, "S.NO")
	for _, c := range d.Columns {
		h = append(h, c.Title)
	}
	return h
}

// Cells renders row, numbered by its position across pages.
func (d Def[T]) Cells(row T, serial int) []string {
	cells := make([]string, 0, len(d.Columns)+1)
	cells = append(cells, strconv.Itoa(serial))
	for _, c := range d.Columns {
		cells = append(cells, c.Value(row))
	}
	return cells
}

// Table renders a page of rows fetched for q.
func (d Def[T]) Table(rows []T, q listview.Query) export.Table {
	t := export.Table{Title: d.Title, Location: q.Location(d.Path), Headers: d.Headers()}
	for i, row := range rows {
		t.Rows = append(t.Rows, d.Cells(row, q.Offset()+i+1))
	}
	return t
}

// Export fetches the page q names and renders it.
func (d Def[T]) Export(ctx context.Context, c *api.Client, q listview.Query) (export.Table, error) {
	page, err := d.Fetch(c)(ctx, api.ListParams{
		Search:  q.Search,
		Limit:   q.PageSize,
		Offset:  q.Offset(),
		Filters: q.Filters,
	})
	if err != nil {
		return export.Table{}, fmt.Errorf("fetch %s: %w", d.Name, err)
	}
	return d.Table(page.Rows, q), nil
}

// Exporter is any list screen definition.
type Exporter interface {
	Meta() Info
	Export(ctx context.Context, c *api.Client, q listview.Query) (export.Table, error)
}

// All lists every screen in navigation order.
var All = []Exporter{Users, Trainers, CorporateEnquiries, NeoEnquiries, FitnessPayments, YogaPayments, DietPayments}

// Lookup finds a screen by name or location path.
func Lookup(key string) (Exporter, bool) {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	for _, s := range All {
		m := s.Meta()
		if m.Name == key || m.Path == key {
			return s, true
		}
	}
	return nil, false
}

// Names returns all screen names.
func Names() []string {
	names := make([]string, 0, len(All))
	for _, s := range All {
		names = append(names, s.Meta().Name)
	}
	return names
}

func dash(t api.Text) string { return t.Or("-") }
func na(t api.Text) string { return t.Or("N/A") }

func join(sep string, parts ...api.Text) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, string(p))
		}
	}
	return strings.Join(out, sep)
}
