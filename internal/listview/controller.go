package listview

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sadopc/fitadmin/internal/api"
)

// Defaults applied to a zero Config.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultErrorMessage = "Failed to load data"
)

// FetchFunc loads one page of rows.
type FetchFunc[T any] func(ctx context.Context, p api.ListParams) (api.Page[T], error)

// Config parametrizes a Controller for one screen.
type Config[T any] struct {
	Name            string
	Fetch           FetchFunc[T]
	FilterKeys      []string
	DefaultPageSize int
	Debounce        time.Duration
	Timeout         time.Duration // per request; 0 disables
	ErrorMessage    string
	Logger          *slog.Logger
}

var controllerIDs atomic.Uint64

// Ticket identifies one scheduled debounce. Only the most recent
// ticket of a mounted controller settles.
type Ticket struct {
	owner uint64
	Gen   uint64
	Delay time.Duration
}

// Request is one issued fetch. Its parameters are a snapshot, so Run
// may execute it on any goroutine.
type Request struct {
	owner  uint64
	Seq    uint64
	Query  Query
	Params api.ListParams
	ctx    context.Context
	cancel context.CancelFunc
}

// Result is the outcome of running a Request.
type Result[T any] struct {
	owner uint64
	Seq   uint64
	Page  api.Page[T]
	Err   error
}

// Controller owns the query, loading and result state of a list
// screen. Every method except Run must be called from the same
// goroutine; Run only touches its Request.
type Controller[T any] struct {
	cfg Config[T]
	id  uint64

	query      Query
	searchText string
	searchGen  uint64

	seq     uint64
	cancel  context.CancelFunc
	loading bool

	rows   []T
	total  int
	err    string
	loaded bool

	unmounted bool
}

func New[T any](cfg Config[T]) *Controller[T] {
	if !ValidPageSize(cfg.DefaultPageSize) {
		cfg.DefaultPageSize = DefaultPageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = DefaultErrorMessage
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller[T]{
		cfg:   cfg,
		id:    controllerIDs.Add(1),
		query: NewQuery(cfg.DefaultPageSize),
	}
}

// Name returns the configured screen name.
func (c *Controller[T]) Name() string { return c.cfg.Name }

// FilterKeys returns the recognized filter names.
func (c *Controller[T]) FilterKeys() []string { return c.cfg.FilterKeys }

// DefaultPageSize returns the configured default page size.
func (c *Controller[T]) DefaultPageSize() int { return c.cfg.DefaultPageSize }

// Apply replaces the whole query, e.g. when restoring a location, and
// (re)mounts the controller. The page is taken as given rather than
// reset. Pending debounces are dropped.
func (c *Controller[T]) Apply(q Query) *Request {
	q = q.Clone()
	if !ValidPageSize(q.PageSize) {
		q.PageSize = c.cfg.DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	keep := make(map[string]string, len(q.Filters))
	for _, k := range c.cfg.FilterKeys {
		if v := q.Filters[k]; v != "" {
			keep[k] = v
		}
	}
	q.Filters = keep

	c.unmounted = false
	c.query = q
	c.searchText = q.Search
	c.searchGen++
	return c.issue()
}

// SetSearchText records raw input and schedules a debounce. Deliver
// the returned ticket to SettleSearch once its Delay has elapsed.
func (c *Controller[T]) SetSearchText(s string) Ticket {
	c.searchText = s
	c.searchGen++
	return Ticket{owner: c.id, Gen: c.searchGen, Delay: c.cfg.Debounce}
}

// SettleSearch commits the raw search text if t is still the latest
// ticket. A changed search resets the page to 1 and issues a fetch;
// otherwise it returns nil.
func (c *Controller[T]) SettleSearch(t Ticket) *Request {
	if c.unmounted || t.owner != c.id || t.Gen != c.searchGen {
		return nil
	}
	if c.searchText == c.query.Search {
		return nil
	}
	c.query.Search = c.searchText
	c.query.Page = 1
	return c.issue()
}

// SetFilter sets one named filter and resets the page to 1. Unknown
// keys and unchanged values return nil.
func (c *Controller[T]) SetFilter(key, value string) *Request {
	return c.SetFilters(map[string]string{key: value})
}

// SetFilters applies several filter changes and issues at most one
// fetch.
func (c *Controller[T]) SetFilters(values map[string]string) *Request {
	changed := false
	for k, v := range values {
		if !c.knownFilter(k) || c.query.Filters[k] == v {
			continue
		}
		if v == "" {
			delete(c.query.Filters, k)
		} else {
			c.query.Filters[k] = v
		}
		changed = true
	}
	if !changed {
		return nil
	}
	c.query.Page = 1
	return c.issue()
}

// SetPage moves to page n, clamped into [1, TotalPages].
func (c *Controller[T]) SetPage(n int) *Request {
	n = c.PageInfo().Clamp(n)
	if n == c.query.Page {
		return nil
	}
	c.query.Page = n
	return c.issue()
}

// SetPageSize changes the page size and resets the page to 1. Sizes
// outside PageSizes are ignored.
func (c *Controller[T]) SetPageSize(n int) *Request {
	if !ValidPageSize(n) || n == c.query.PageSize {
		return nil
	}
	c.query.PageSize = n
	c.query.Page = 1
	return c.issue()
}

// Refresh re-issues the current query unchanged.
func (c *Controller[T]) Refresh() *Request {
	if c.unmounted {
		return nil
	}
	return c.issue()
}

// Unmount cancels the in-flight request and invalidates pending
// debounces and results. Apply mounts again.
func (c *Controller[T]) Unmount() {
	c.unmounted = true
	c.searchGen++
	c.seq++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller[T]) issue() *Request {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	var ctx context.Context
	var cancel context.CancelFunc
	if c.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	c.cancel = cancel
	c.loading = true

	q := c.query.Clone()
	return &Request{
		owner: c.id,
		Seq:   c.seq,
		Query: q,
		Params: api.ListParams{
			Search:  q.Search,
			Limit:   q.PageSize,
			Offset:  q.Offset(),
			Filters: q.Filters,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run executes req. It is safe to call from any goroutine.
func (c *Controller[T]) Run(req *Request) Result[T] {
	defer req.cancel()
	page, err := c.cfg.Fetch(req.ctx, req.Params)
	return Result[T]{owner: req.owner, Seq: req.Seq, Page: page, Err: err}
}

// Commit applies res if it answers the most recently issued request.
// Failures keep the previous rows. When the new count leaves the page
// out of range, the page is clamped and the follow-up request is
// returned.
func (c *Controller[T]) Commit(res Result[T]) (applied bool, next *Request) {
	if c.unmounted || res.owner != c.id || res.Seq != c.seq {
		return false, nil
	}
	c.loading = false
	c.cancel = nil

	if res.Err != nil {
		c.err = c.errorMessage(res.Err)
		c.cfg.Logger.Warn("list_fetch_failed", "screen", c.cfg.Name, "seq", res.Seq, "error", res.Err)
		return true, nil
	}

	c.rows = res.Page.Rows
	c.total = res.Page.Count
	c.err = ""
	c.loaded = true

	if page := c.PageInfo().Clamp(c.query.Page); page != c.query.Page {
		c.query.Page = page
		return true, c.issue()
	}
	return true, nil
}

func (c *Controller[T]) errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}
	return api.UserMessage(err, c.cfg.ErrorMessage)
}

func (c *Controller[T]) knownFilter(key string) bool {
	for _, k := range c.cfg.FilterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Query returns a copy of the committed query.
func (c *Controller[T]) Query() Query { return c.query.Clone() }

// SearchText returns the raw, possibly unsettled, search input.
func (c *Controller[T]) SearchText() string { return c.searchText }

func (c *Controller[T]) Rows() []T { return c.rows }
func (c *Controller[T]) Total() int { return c.total }
func (c *Controller[T]) Loading() bool { return c.loading }
func (c *Controller[T]) Loaded() bool { return c.loaded }

// Err returns the user-facing message of the last failed fetch.
func (c *Controller[T]) Err() string { return c.err }

// PageInfo derives pagination metadata from the query and count.
func (c *Controller[T]) PageInfo() PageInfo {
	return NewPageInfo(c.query.Page, c.query.PageSize, c.total)
}

// Location renders the query under path.
func (c *Controller[T]) Location(path string) string {
	return c.query.Location(path)
}
