package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/export"
	"github.com/sadopc/fitadmin/internal/listview"
	"github.com/sadopc/fitadmin/internal/screens"
	"github.com/sadopc/fitadmin/internal/store"
)

type listResultMsg[T any] struct {
	res listview.Result[T]
}

type searchSettleMsg struct {
	ticket listview.Ticket
}

// listModel is a paginated, searchable table bound to one screen
// definition. The controller holds the query state; the model owns
// presentation and the screen's location history.
type listModel[T any] struct {
	def    screens.Def[T]
	ctrl   *listview.Controller[T]
	store  *store.Store
	logger *slog.Logger

	search    textinput.Model
	spinner   spinner.Model
	searching bool
	ticking   bool
	cursor    int
	historyID int64
	mounted   bool

	// defaults seeds the filters of a mount that restores none of them.
	defaults func() map[string]string

	width  int
	height int
}

func newListModel[T any](def screens.Def[T], d Deps) listModel[T] {
	pageSize := d.Store.IntSetting(store.SettingDefaultPageSize, listview.DefaultPageSize)
	debounce := def.Debounce
	if debounce == 0 {
		ms := d.Store.IntSetting(store.SettingSearchDebounce, int(listview.DefaultDebounce/time.Millisecond))
		debounce = time.Duration(ms) * time.Millisecond
	}

	ctrl := listview.New(listview.Config[T]{
		Name:            def.Name,
		Fetch:           def.Fetch(d.Client),
		FilterKeys:      def.FilterKeys,
		DefaultPageSize: pageSize,
		Debounce:        debounce,
		Timeout:         d.Config.Timeout(),
		Logger:          d.Logger,
	})

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = highlightStyle

	return listModel[T]{
		def:     def,
		ctrl:    ctrl,
		store:   d.Store,
		logger:  d.Logger,
		search:  ti,
		spinner: sp,
	}
}

func (m *listModel[T]) setSize(w, h int) {
	m.width = w
	m.height = h
}

// mount shows the screen at loc, falling back to the newest entry of
// its history and then to the default query.
func (m listModel[T]) mount(loc string) (listModel[T], tea.Cmd) {
	m.mounted = true
	m.searching = false
	m.search.Blur()

	fromHistory := false
	if loc == "" {
		latest, err := m.store.LatestLocation(m.def.Name)
		if err != nil {
			m.logger.Warn("history_read_failed", "screen", m.def.Name, "error", err)
		} else if latest != nil {
			loc = latest.Location
			m.historyID = latest.ID
			fromHistory = true
		}
	}

	q := listview.NewQuery(m.ctrl.DefaultPageSize())
	if loc != "" {
		path, parsed, err := listview.ParseLocation(loc, m.def.FilterKeys, m.ctrl.DefaultPageSize())
		switch {
		case err != nil:
			m.logger.Warn("location_invalid", "screen", m.def.Name, "location", loc, "error", err)
			fromHistory = false
		case path != m.def.Path:
			fromHistory = false
		default:
			q = parsed
		}
	}

	if m.defaults != nil {
		seed := m.defaults()
		restored := false
		for k := range seed {
			restored = restored || q.Filter(k) != ""
		}
		if !restored {
			for k, v := range seed {
				q.Filters[k] = v
			}
		}
	}

	req := m.ctrl.Apply(q)
	m.search.SetValue(q.Search)
	m.cursor = 0
	if !fromHistory {
		m = m.record()
	}
	return m.run(req)
}

// unmount cancels in-flight work. Results and ticks that arrive later
// are dropped.
func (m listModel[T]) unmount() listModel[T] {
	m.ctrl.Unmount()
	m.mounted = false
	m.ticking = false
	m.searching = false
	m.search.Blur()
	return m
}

func (m listModel[T]) refresh() (listModel[T], tea.Cmd) {
	return m.run(m.ctrl.Refresh())
}

// run fetches req in the background. The spinner tick chain is started
// only when none is running.
func (m listModel[T]) run(req *listview.Request) (listModel[T], tea.Cmd) {
	if req == nil {
		return m, nil
	}
	ctrl := m.ctrl
	fetch := func() tea.Msg {
		return listResultMsg[T]{res: ctrl.Run(req)}
	}
	if m.ticking {
		return m, fetch
	}
	m.ticking = true
	return m, tea.Batch(m.spinner.Tick, fetch)
}

// issue runs a user-driven request and records the resulting location.
func (m listModel[T]) issue(req *listview.Request) (listModel[T], tea.Cmd) {
	if req == nil {
		return m, nil
	}
	m = m.record()
	return m.run(req)
}

func (m listModel[T]) record() listModel[T] {
	loc, err := m.store.PushLocation(m.def.Name, m.ctrl.Location(m.def.Path), m.historyID)
	if err != nil {
		m.logger.Warn("history_push_failed", "screen", m.def.Name, "error", err)
		return m
	}
	m.historyID = loc.ID
	return m
}

func (m listModel[T]) applyFilters(values map[string]string) (listModel[T], tea.Cmd) {
	return m.issue(m.ctrl.SetFilters(values))
}

// navigate moves through the screen's location history without
// recording a new entry.
func (m listModel[T]) navigate(back bool) (listModel[T], tea.Cmd) {
	var (
		loc *store.Location
		err error
	)
	if back {
		loc, err = m.store.PreviousLocation(m.def.Name, m.historyID)
	} else {
		loc, err = m.store.NextLocation(m.def.Name, m.historyID)
	}
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
	}
	if loc == nil {
		return m, nil
	}

	_, q, err := listview.ParseLocation(loc.Location, m.def.FilterKeys, m.ctrl.DefaultPageSize())
	if err != nil {
		m.logger.Warn("location_invalid", "screen", m.def.Name, "location", loc.Location, "error", err)
		return m, nil
	}
	m.historyID = loc.ID
	m.search.SetValue(q.Search)
	m.cursor = 0
	return m.run(m.ctrl.Apply(q))
}

func (m listModel[T]) selected() (T, bool) {
	rows := m.ctrl.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[m.cursor], true
}

func (m listModel[T]) table() export.Table {
	return m.def.Table(m.ctrl.Rows(), m.ctrl.Query())
}

func (m listModel[T]) location() string {
	return m.ctrl.Location(m.def.Path)
}

func (m listModel[T]) update(msg tea.Msg) (listModel[T], tea.Cmd) {
	switch msg := msg.(type) {
	case listResultMsg[T]:
		applied, next := m.ctrl.Commit(msg.res)
		if !applied {
			return m, nil
		}
		if n := len(m.ctrl.Rows()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		if next != nil {
			return m.issue(next)
		}
		return m, nil

	case searchSettleMsg:
		return m.issue(m.ctrl.SettleSearch(msg.ticket))

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() {
			return m, nil
		}
		if !m.ctrl.Loading() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m listModel[T]) updateSearch(msg tea.KeyMsg) (listModel[T], tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != prev {
		t := m.ctrl.SetSearchText(v)
		return m, tea.Batch(cmd, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return searchSettleMsg{ticket: t}
		}))
	}
	return m, cmd
}

func (m listModel[T]) updateKeys(msg tea.KeyMsg) (listModel[T], tea.Cmd) {
	page := m.ctrl.Query().Page
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.ctrl.Rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Left):
		return m.issue(m.ctrl.SetPage(page - 1))
	case key.Matches(msg, keys.Right):
		return m.issue(m.ctrl.SetPage(page + 1))
	case key.Matches(msg, keys.PageSize):
		return m.issue(m.ctrl.SetPageSize(nextPageSize(m.ctrl.Query().PageSize)))
	case key.Matches(msg, keys.Refresh):
		return m.refresh()
	case key.Matches(msg, keys.HistBack):
		return m.navigate(true)
	case key.Matches(msg, keys.HistFwd):
		return m.navigate(false)
	case key.Matches(msg, keys.Search):
		m.searching = true
		return m, m.search.Focus()
	}
	return m, nil
}

func nextPageSize(cur int) int {
	for i, s := range listview.PageSizes {
		if s == cur {
			return listview.PageSizes[(i+1)%len(listview.PageSizes)]
		}
	}
	return listview.DefaultPageSize
}

func (m listModel[T]) view() string {
	var b strings.Builder

	title := titleStyle.Render(m.def.Title)
	if m.ctrl.Loading() {
		title += " " + m.spinner.View()
	}
	b.WriteString(title + "\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(mutedStyle.Render("/ to search"))
	}
	if f := m.filterSummary(); f != "" {
		b.WriteString("  " + highlightStyle.Render(f))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())

	if e := m.ctrl.Err(); e != "" {
		b.WriteString("\n" + errorStyle.Render(e))
	}
	b.WriteString("\n" + m.renderPager())
	return b.String()
}

func (m listModel[T]) filterSummary() string {
	q := m.ctrl.Query()
	var parts []string
	for _, k := range m.def.FilterKeys {
		if v := q.Filter(k); v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, "  ")
}

func (m listModel[T]) renderTable() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	const serialWidth = 5
	hdr := []string{fit("S.NO", serialWidth)}
	for _, c := range m.def.Columns {
		hdr = append(hdr, fit(c.Title, c.Width))
	}

	var rows []string
	rows = append(rows, tableHeaderStyle.Render(fit(strings.Join(hdr, " "), width)))

	data := m.ctrl.Rows()
	if len(data) == 0 {
		switch {
		case !m.ctrl.Loaded() && m.ctrl.Loading():
			rows = append(rows, mutedStyle.Render("  Loading..."))
		case m.ctrl.Loaded():
			rows = append(rows, mutedStyle.Render("  No records found."))
		}
		return strings.Join(rows, "\n")
	}

	offset := m.ctrl.Query().Offset()
	for i, r := range data {
		cells := m.def.Cells(r, offset+i+1)
		line := make([]string, 0, len(cells))
		line = append(line, fit(cells[0], serialWidth))
		for j, c := range m.def.Columns {
			line = append(line, fit(cells[j+1], c.Width))
		}
		text := fit(strings.Join(line, " "), width)
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render(text))
		} else {
			rows = append(rows, normalItemStyle.Render(text))
		}
	}
	return strings.Join(rows, "\n")
}

func (m listModel[T]) renderPager() string {
	info := m.ctrl.PageInfo()
	showing := mutedStyle.Render(fmt.Sprintf("Showing %d to %d of %d entries", info.StartRow(), info.EndRow(), info.Total))

	var pages []string
	for _, n := range info.PageNumbers() {
		if n == info.Page {
			pages = append(pages, currentPageStyle.Render(strconv.Itoa(n)))
		} else {
			pages = append(pages, pageStyle.Render(strconv.Itoa(n)))
		}
	}
	nav := lipgloss.JoinHorizontal(lipgloss.Center, pages...)
	if info.Disabled() {
		nav = mutedStyle.Render(nav)
	}

	size := mutedStyle.Render(fmt.Sprintf("%d / page", info.PageSize))
	return lipgloss.JoinHorizontal(lipgloss.Center, showing, "   ", nav, "   ", size)
}
