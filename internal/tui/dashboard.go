package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/dashboard"
	"github.com/sadopc/fitadmin/internal/store"
)

var lineTitles = map[dashboard.Line]string{
	dashboard.Fitness: "Fitness",
	dashboard.Yoga:    "Yoga",
	dashboard.Diet:    "Diet",
}

var lineColors = map[dashboard.Line]lipgloss.Color{
	dashboard.Fitness: colorPrimary,
	dashboard.Yoga:    colorSecondary,
	dashboard.Diet:    colorWarning,
}

type summaryMsg struct {
	seq     int
	summary dashboard.Summary
	err     error
}

type staffMsg struct {
	staff dashboard.Staff
	err   error
}

type dashboardModel struct {
	client  *api.Client
	store   *store.Store
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
	width   int
	height  int

	period  dashboard.Period
	summary dashboard.Summary
	staff   dashboard.Staff
	loaded  bool
	loading bool
	err     string
	seq     int

	formActive bool
	form       *huh.Form
	picker     periodPicker

	chart barchart.Model
}

func newDashboardModel(d Deps) dashboardModel {
	return dashboardModel{
		client:  d.Client,
		store:   d.Store,
		logger:  d.Logger,
		timeout: d.Config.Timeout(),
		now:     time.Now,
		period:  dashboard.NewPeriod(dashboard.Today, time.Now(), d.Store.WeekStart()),
		picker:  newPeriodPicker(),
		chart:   barchart.New(60, 10),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// mount loads staff counts and the summary for the current period.
func (d dashboardModel) mount() (dashboardModel, tea.Cmd) {
	d.formActive = false
	d.form = nil
	var load tea.Cmd
	d, load = d.loadSummary()
	return d, tea.Batch(load, d.loadStaff())
}

func (d dashboardModel) loadSummary() (dashboardModel, tea.Cmd) {
	d.seq++
	d.loading = true
	seq, period := d.seq, d.period
	client, timeout, logger := d.client, d.timeout, d.logger
	return d, func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		sum, err := dashboard.Aggregate(ctx, client, period, dashboard.Options{Logger: logger})
		return summaryMsg{seq: seq, summary: sum, err: err}
	}
}

func (d dashboardModel) loadStaff() tea.Cmd {
	client, timeout, logger := d.client, d.timeout, d.logger
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		s, err := dashboard.StaffCounts(ctx, client, dashboard.Options{Logger: logger})
		return staffMsg{staff: s, err: err}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return d.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case summaryMsg:
		if msg.seq != d.seq {
			return d, nil
		}
		d.loading = false
		if msg.err != nil {
			// No totals from an earlier period are shown next to the error.
			d.err = "Failed to load revenue or booking data"
			d.summary = dashboard.Summary{}
			d.loaded = false
			return d, nil
		}
		d.err = ""
		d.summary = msg.summary
		d.loaded = true
		d.buildChart()
		return d, nil

	case staffMsg:
		// Counts stay at zero when the listings cannot be read.
		if msg.err == nil {
			d.staff = msg.staff
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Period), key.Matches(msg, keys.Filter):
			d.form = d.picker.form(d.period)
			d.formActive = true
			return d, d.form.Init()
		case key.Matches(msg, keys.Refresh):
			var load tea.Cmd
			d, load = d.loadSummary()
			return d, tea.Batch(load, d.loadStaff())
		}
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}
	return d, nil
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		d.form = nil
		d.period = d.picker.result(d.period, d.now(), d.store.WeekStart())
		return d.loadSummary()
	}
	return d, cmd
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if d.height > 30 {
		chartHeight = 12
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, st := range d.summary.Lines {
		bars = append(bars, barchart.BarData{
			Label: lineTitles[st.Line],
			Values: []barchart.BarValue{{
				Name:  lineTitles[st.Line],
				Value: st.Revenue,
				Style: lipgloss.NewStyle().Foreground(lineColors[st.Line]),
			}},
		})
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	w := d.width - 4
	if d.formActive && d.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Select Period"), "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Dashboard"), "  ", highlightStyle.Render(d.period.String()),
	)

	staff := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Active Users", dashboard.Count(d.staff.ActiveUsers)),
		card("Inactive Users", dashboard.Count(d.staff.InactiveUsers)),
		card("Active Trainers", dashboard.Count(d.staff.ActiveTrainers)),
		card("Inactive Trainers", dashboard.Count(d.staff.InactiveTrainers)),
	)

	rows := []string{header, "", staff}
	if d.err != "" {
		rows = append(rows, errorStyle.Render(d.err))
	}

	var bookings []string
	for _, l := range []dashboard.Line{dashboard.Fitness, dashboard.Yoga, dashboard.Diet} {
		st := d.summary.Line(l)
		bookings = append(bookings, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(lineTitles[l]+" Bookings"),
			successStyle.Render("Successful: "+dashboard.Count(st.Success)),
			errorStyle.Render("Failed: "+dashboard.Count(st.Failed)),
		)))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, bookings...))

	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Revenue", dashboard.Money(d.summary.Total)),
		card("Personal Trainer Revenue", dashboard.Money(d.summary.Line(dashboard.Fitness).Revenue)),
		card("Yoga Trainer Revenue", dashboard.Money(d.summary.Line(dashboard.Yoga).Revenue)),
		card("Diet Plan Revenue", dashboard.Money(d.summary.Line(dashboard.Diet).Revenue)),
	))

	if d.loaded {
		rows = append(rows, "", d.chart.View())
	}
	if d.summary.Truncated {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("Totals cover the first %s rows of a line only.", dashboard.Count(dashboard.DefaultMaxRows))))
	}
	if d.loading {
		rows = append(rows, mutedStyle.Render("Loading revenue data..."))
	}
	rows = append(rows, "", mutedStyle.Render("  p: period  r: refresh"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func card(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), cardValueStyle.Render(value)))
}
