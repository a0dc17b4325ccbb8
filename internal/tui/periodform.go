package tui

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/fitadmin/internal/dashboard"
)

// periodPicker edits a dashboard.Period. The custom date group is only
// shown when the custom kind is selected.
type periodPicker struct {
	kind  *string
	start *string
	end   *string
}

func newPeriodPicker() periodPicker {
	kind, start, end := string(dashboard.Today), "", ""
	return periodPicker{kind: &kind, start: &start, end: &end}
}

func (pp periodPicker) form(p dashboard.Period) *huh.Form {
	*pp.kind = string(p.Kind)
	*pp.start = p.Start
	*pp.end = p.End

	opts := make([]huh.Option[string], len(dashboard.PeriodKinds))
	for i, k := range dashboard.PeriodKinds {
		opts[i] = huh.NewOption(k.Label(), string(k))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Period").Options(opts...).Value(pp.kind),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start Date").Placeholder(dashboard.DateLayout).Value(pp.start),
			huh.NewInput().Title("End Date").Placeholder(dashboard.DateLayout).Value(pp.end),
		).WithHideFunc(func() bool { return *pp.kind != string(dashboard.Custom) }),
	).WithShowHelp(true).WithShowErrors(true)
}

// result reads the submitted period. Selecting a preset recomputes its
// dates around now; custom dates are taken as typed.
func (pp periodPicker) result(prev dashboard.Period, now time.Time, weekStart time.Weekday) dashboard.Period {
	kind, err := dashboard.ParseKind(*pp.kind)
	if err != nil {
		return prev
	}
	if kind == dashboard.Custom {
		return prev.WithDates(*pp.start, *pp.end)
	}
	return prev.Select(kind, now, weekStart)
}
