package listview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/logging"
)

// fakeSource serves count rows, numbered from offset.
type fakeSource struct {
	count int
	err   error
	calls []api.ListParams
}

func (f *fakeSource) fetch(ctx context.Context, p api.ListParams) (api.Page[int], error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return api.Page[int]{}, f.err
	}
	var rows []int
	for i := p.Offset; i < p.Offset+p.Limit && i < f.count; i++ {
		rows = append(rows, i)
	}
	return api.Page[int]{Rows: rows, Count: f.count}, nil
}

func newTestController(t *testing.T, src *fakeSource) *Controller[int] {
	t.Helper()
	return New(Config[int]{
		Name:       "trainers",
		Fetch:      src.fetch,
		FilterKeys: []string{"kyc_status", "block_status"},
		Logger:     logging.Discard(),
	})
}

// settle runs req (if any) and commits it, following clamp requests.
func settle(t *testing.T, c *Controller[int], req *Request) {
	t.Helper()
	for req != nil {
		applied, next := c.Commit(c.Run(req))
		if !applied {
			t.Fatal("expected result to be applied")
		}
		req = next
	}
}

// ============================================================
// Debounce
// ============================================================

func TestDebounceCommitsOnlyFinalValue(t *testing.T) {
	src := &fakeSource{count: 50}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	src.calls = nil

	var tickets []Ticket
	for _, s := range []string{"r", "ra", "rav", "ravi"} {
		tickets = append(tickets, c.SetSearchText(s))
	}
	if c.SearchText() != "ravi" {
		t.Fatalf("raw search = %q", c.SearchText())
	}
	if c.Query().Search != "" {
		t.Fatal("search must not commit before the quiet period")
	}
	for _, tk := range tickets[:3] {
		if req := c.SettleSearch(tk); req != nil {
			t.Fatalf("stale ticket %d issued a request", tk.Gen)
		}
	}

	req := c.SettleSearch(tickets[3])
	if req == nil {
		t.Fatal("final ticket should issue a request")
	}
	settle(t, c, req)

	if len(src.calls) != 1 || src.calls[0].Search != "ravi" {
		t.Fatalf("calls = %+v", src.calls)
	}
	if c.SettleSearch(tickets[3]) != nil {
		t.Fatal("settling the same value twice must not refetch")
	}
}

func TestDebounceDelay(t *testing.T) {
	c := newTestController(t, &fakeSource{})
	if tk := c.SetSearchText("x"); tk.Delay != DefaultDebounce {
		t.Fatalf("delay = %v", tk.Delay)
	}
}

func TestSearchBackToCommittedValueIsNoop(t *testing.T) {
	src := &fakeSource{count: 5}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))

	c.SetSearchText("a")
	tk := c.SetSearchText("")
	if c.SettleSearch(tk) != nil {
		t.Fatal("unchanged search must not fetch")
	}
}

// ============================================================
// Offsets and resets
// ============================================================

func TestOffsetMatchesPage(t *testing.T) {
	src := &fakeSource{count: 1000}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))

	for _, size := range PageSizes {
		settle(t, c, c.SetPageSize(size))
		for _, page := range []int{-3, 0, 1, 2, 7, 9999} {
			req := c.SetPage(page)
			if req == nil {
				continue
			}
			if req.Query.Page < 1 {
				t.Fatalf("page %d sent", req.Query.Page)
			}
			if want := (req.Query.Page - 1) * size; req.Params.Offset != want || req.Params.Limit != size {
				t.Fatalf("page %d size %d: offset %d limit %d", req.Query.Page, size, req.Params.Offset, req.Params.Limit)
			}
			settle(t, c, req)
		}
	}
}

func TestSetPageClamps(t *testing.T) {
	src := &fakeSource{count: 35}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))

	settle(t, c, c.SetPage(99))
	if c.Query().Page != 4 {
		t.Fatalf("page = %d, want 4", c.Query().Page)
	}
	if c.SetPage(4) != nil {
		t.Fatal("same page must not refetch")
	}
}

func TestFilterResetsPage(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetPage(5))

	req := c.SetFilter("kyc_status", "done")
	if req == nil || req.Query.Page != 1 || req.Params.Filters["kyc_status"] != "done" {
		t.Fatalf("request = %+v", req)
	}
	settle(t, c, req)

	if c.SetFilter("kyc_status", "done") != nil {
		t.Fatal("unchanged filter must not refetch")
	}
	if c.SetFilter("unknown", "x") != nil {
		t.Fatal("unknown filter must be ignored")
	}
}

func TestSetFiltersIssuesOneRequest(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	src.calls = nil

	settle(t, c, c.SetFilters(map[string]string{"kyc_status": "done", "block_status": "Blocked"}))
	if len(src.calls) != 1 {
		t.Fatalf("calls = %d", len(src.calls))
	}
	settle(t, c, c.SetFilter("block_status", ""))
	if _, ok := c.Query().Filters["block_status"]; ok {
		t.Fatal("cleared filter should be removed")
	}
}

func TestPageSizeResetsPage(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetPage(3))

	req := c.SetPageSize(20)
	if req == nil || req.Query.Page != 1 || req.Params.Limit != 20 {
		t.Fatalf("request = %+v", req)
	}
	if c.SetPageSize(7) != nil {
		t.Fatal("page size outside the allowed set must be ignored")
	}
}

func TestSearchResetsPageButPageKeepsSearch(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetFilter("kyc_status", "pending"))
	settle(t, c, c.SetPage(4))

	settle(t, c, c.SettleSearch(c.SetSearchText("asha")))
	if c.Query().Page != 1 {
		t.Fatalf("page = %d after search", c.Query().Page)
	}

	settle(t, c, c.SetPage(2))
	q := c.Query()
	if q.Search != "asha" || q.Filter("kyc_status") != "pending" || q.Page != 2 {
		t.Fatalf("query = %+v", q)
	}
}

func TestApplyKeepsPage(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)

	q := NewQuery(10)
	q.Page = 6
	q.Search = "yoga"
	req := c.Apply(q)
	if req.Query.Page != 6 || req.Params.Offset != 50 {
		t.Fatalf("request = %+v", req)
	}
	if c.SearchText() != "yoga" {
		t.Fatal("raw search should follow the applied query")
	}
}

func TestRefreshReissuesSameQuery(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetPage(3))
	before := c.Query()

	req := c.Refresh()
	if req == nil || !req.Query.Equal(before) {
		t.Fatalf("refresh request = %+v", req)
	}
}

// ============================================================
// Sequence guard and failures
// ============================================================

func TestOlderResultDoesNotOverwriteNewer(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))

	first := c.SetPage(2)
	second := c.SetPage(3)

	res2 := c.Run(second)
	res1 := c.Run(first)

	if applied, _ := c.Commit(res2); !applied {
		t.Fatal("newest result must apply")
	}
	if applied, _ := c.Commit(res1); applied {
		t.Fatal("superseded result must be discarded")
	}
	if rows := c.Rows(); len(rows) == 0 || rows[0] != 20 {
		t.Fatalf("rows = %v, want page 3", rows)
	}
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	c := newTestController(t, &fakeSource{count: 100})
	first := c.Apply(NewQuery(10))
	c.SetPageSize(20)
	if first.ctx.Err() == nil {
		t.Fatal("superseded request context should be cancelled")
	}
}

func TestErrorKeepsRows(t *testing.T) {
	src := &fakeSource{count: 30}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))

	src.err = errors.New("connection refused")
	applied, _ := c.Commit(c.Run(c.Refresh()))
	if !applied {
		t.Fatal("failure for the current request should apply")
	}
	if c.Err() != DefaultErrorMessage {
		t.Fatalf("err = %q", c.Err())
	}
	if len(c.Rows()) != 10 || c.Total() != 30 {
		t.Fatal("rows must survive a failed fetch")
	}
	if c.Loading() {
		t.Fatal("loading should clear")
	}

	src.err = nil
	settle(t, c, c.Refresh())
	if c.Err() != "" {
		t.Fatal("success should clear the error")
	}
}

func TestBackendMessageSurfaces(t *testing.T) {
	src := &fakeSource{err: &api.APIError{Status: 401, Message: "Unauthorized"}}
	c := newTestController(t, src)
	c.Commit(c.Run(c.Apply(NewQuery(10))))
	if c.Err() != "Unauthorized" {
		t.Fatalf("err = %q", c.Err())
	}
}

func TestTimeout(t *testing.T) {
	c := New(Config[int]{
		Fetch: func(ctx context.Context, p api.ListParams) (api.Page[int], error) {
			<-ctx.Done()
			return api.Page[int]{}, ctx.Err()
		},
		Timeout: 10 * time.Millisecond,
		Logger:  logging.Discard(),
	})
	c.Commit(c.Run(c.Apply(NewQuery(10))))
	if c.Err() != "Request timed out" {
		t.Fatalf("err = %q", c.Err())
	}
}

func TestLoadingState(t *testing.T) {
	c := newTestController(t, &fakeSource{count: 1})
	req := c.Apply(NewQuery(10))
	if !c.Loading() {
		t.Fatal("expected loading while a request is in flight")
	}
	c.Commit(c.Run(req))
	if c.Loading() || !c.Loaded() {
		t.Fatal("expected loaded")
	}
}

func TestCountShrinkClampsPage(t *testing.T) {
	src := &fakeSource{count: 100}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetPage(8))

	src.count = 12
	applied, next := c.Commit(c.Run(c.Refresh()))
	if !applied || next == nil {
		t.Fatal("expected a clamp follow-up request")
	}
	if next.Query.Page != 2 {
		t.Fatalf("clamped page = %d", next.Query.Page)
	}
	settle(t, c, next)
	if len(c.Rows()) != 2 {
		t.Fatalf("rows = %v", c.Rows())
	}
}

// ============================================================
// Unmount
// ============================================================

func TestUnmountDropsEverything(t *testing.T) {
	c := newTestController(t, &fakeSource{count: 10})
	settle(t, c, c.Apply(NewQuery(10)))

	tk := c.SetSearchText("late")
	req := c.Refresh()
	c.Unmount()

	if req.ctx.Err() == nil {
		t.Fatal("in-flight request should be cancelled")
	}
	if c.SettleSearch(tk) != nil {
		t.Fatal("pending debounce must not fire after unmount")
	}
	if applied, _ := c.Commit(c.Run(req)); applied {
		t.Fatal("results after unmount must be dropped")
	}
	if c.Refresh() != nil {
		t.Fatal("refresh after unmount must be a no-op")
	}
}

func TestForeignResultsIgnored(t *testing.T) {
	a := newTestController(t, &fakeSource{count: 10})
	b := newTestController(t, &fakeSource{count: 99})
	a.Apply(NewQuery(10))
	reqB := b.Apply(NewQuery(10))

	if applied, _ := a.Commit(b.Run(reqB)); applied {
		t.Fatal("a controller must not accept another controller's result")
	}
	if a.SettleSearch(b.SetSearchText("x")) != nil {
		t.Fatal("a controller must not settle another controller's ticket")
	}
}

// ============================================================
// Locations and derived values
// ============================================================

func TestLocationRoundTrip(t *testing.T) {
	src := &fakeSource{count: 200}
	c := newTestController(t, src)
	settle(t, c, c.Apply(NewQuery(10)))
	settle(t, c, c.SetPageSize(15))
	settle(t, c, c.SetFilter("block_status", "Blocked"))
	settle(t, c, c.SettleSearch(c.SetSearchText("ravi k")))
	settle(t, c, c.SetPage(3))

	loc := c.Location("/trainers")
	path, q, err := ParseLocation(loc, c.FilterKeys(), c.DefaultPageSize())
	if err != nil {
		t.Fatal(err)
	}
	if path != "/trainers" {
		t.Fatalf("path = %q", path)
	}

	fresh := newTestController(t, src)
	settle(t, fresh, fresh.Apply(q))
	if !fresh.Query().Equal(c.Query()) {
		t.Fatalf("round trip: %+v != %+v", fresh.Query(), c.Query())
	}
}

func TestLocationRoundTripKeepsWhitespace(t *testing.T) {
	for _, search := range []string{"john ", " ravi", "a  b"} {
		q := NewQuery(10)
		q.Search = search
		loc := q.Location("/trainers")
		_, got, err := ParseLocation(loc, nil, 10)
		if err != nil {
			t.Fatal(err)
		}
		if got.Search != search {
			t.Fatalf("round trip lost search: %q -> %q (loc %s)", search, got.Search, loc)
		}
	}
}

func TestLocationOmitsEmpty(t *testing.T) {
	q := NewQuery(10)
	q.Filters["kyc_status"] = ""
	if got := q.Location("/users"); got != "/users?limit=10&page=1" {
		t.Fatalf("location = %q", got)
	}
}

func TestParseQueryDefaults(t *testing.T) {
	_, q, err := ParseLocation("/users?page=-2&limit=13&foo=bar", nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if q.Page != 1 || q.PageSize != 10 || len(q.Filters) != 0 {
		t.Fatalf("query = %+v", q)
	}
}

func TestEmptyListing(t *testing.T) {
	c := newTestController(t, &fakeSource{count: 0})
	settle(t, c, c.Apply(NewQuery(10)))

	info := c.PageInfo()
	if info.StartRow() != 0 || info.EndRow() != 0 || info.Total != 0 {
		t.Fatalf("showing %d to %d of %d", info.StartRow(), info.EndRow(), info.Total)
	}
	if info.TotalPages != 0 || !info.Disabled() {
		t.Fatal("empty listing should have disabled pagination")
	}
	if pages := info.PageNumbers(); len(pages) != 1 || pages[0] != 1 {
		t.Fatalf("page numbers = %v", pages)
	}
}

func TestPageInfo(t *testing.T) {
	tests := []struct {
		page, size, total int
		start, end, pages int
	}{
		{1, 10, 35, 1, 10, 4},
		{4, 10, 35, 31, 35, 4},
		{2, 5, 6, 6, 6, 2},
		{1, 20, 20, 1, 20, 1},
	}
	for _, tt := range tests {
		p := NewPageInfo(tt.page, tt.size, tt.total)
		if p.StartRow() != tt.start || p.EndRow() != tt.end || p.TotalPages != tt.pages {
			t.Errorf("%+v: got %d-%d of %d pages", tt, p.StartRow(), p.EndRow(), p.TotalPages)
		}
	}
}

func TestPageNumbersWindow(t *testing.T) {
	tests := []struct {
		page, total int
		want        []int
	}{
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		got := NewPageInfo(tt.page, 1, tt.total).PageNumbers()
		if len(got) != len(tt.want) {
			t.Fatalf("page %d of %d: %v", tt.page, tt.total, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("page %d of %d: %v", tt.page, tt.total, got)
			}
		}
	}
}
