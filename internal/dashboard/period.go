package dashboard

import (
	"fmt"
	"time"
)

// DateLayout is the YYYY-MM-DD form the backend expects.
const DateLayout = "2006-01-02"

type PeriodKind string

const (
	Today   PeriodKind = "today"
	Weekly  PeriodKind = "weekly"
	Monthly PeriodKind = "monthly"
	Yearly  PeriodKind = "yearly"
	Custom  PeriodKind = "custom"
)

// PeriodKinds lists the selectable kinds in display order.
var PeriodKinds = []PeriodKind{Today, Weekly, Monthly, Yearly, Custom}

// Label is the selector text for k.
func (k PeriodKind) Label() string {
	switch k {
	case Today:
		return "Today"
	case Weekly:
		return "This Week"
	case Monthly:
		return "This Month"
	case Yearly:
		return "This Year"
	case Custom:
		return "Custom"
	}
	return string(k)
}

// ParseKind validates a period kind name.
func ParseKind(s string) (PeriodKind, error) {
	for _, k := range PeriodKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Query parameter names for period scoped listings.
const (
	FilterType  = "filterType"
	FilterStart = "startDate"
	FilterEnd   = "endDate"
)

// Period is a selected kind with its inclusive date bounds.
type Period struct {
	Kind  PeriodKind
	Start string
	End   string
}

// Range returns the first and last day of the calendar unit of kind
// containing now. Custom has no unit and yields today.
func Range(kind PeriodKind, now time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch kind {
	case Weekly:
		back := (int(today.Weekday()) - int(weekStart) + 7) % 7
		start := today.AddDate(0, 0, -back)
		return start, start.AddDate(0, 0, 6)
	case Monthly:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 1, -1)
	case Yearly:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(1, 0, -1)
	default:
		return today, today
	}
}

// NewPeriod derives a period of kind around now.
func NewPeriod(kind PeriodKind, now time.Time, weekStart time.Weekday) Period {
	start, end := Range(kind, now, weekStart)
	return Period{Kind: kind, Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

// Select switches to kind. Switching to Custom keeps the current
// dates so the user edits from there.
func (p Period) Select(kind PeriodKind, now time.Time, weekStart time.Weekday) Period {
	if kind == Custom {
		p.Kind = Custom
		return p
	}
	return NewPeriod(kind, now, weekStart)
}

// WithDates sets custom bounds. They are not validated.
func (p Period) WithDates(start, end string) Period {
	return Period{Kind: Custom, Start: start, End: end}
}

// Filters renders p as the list query parameters the payment
// endpoints take.
func (p Period) Filters() map[string]string {
	return map[string]string{
		FilterType:  string(p.Kind),
		FilterStart: p.Start,
		FilterEnd:   p.End,
	}
}

// PeriodFromFilters reads a period back out of list filters, falling
// back to today when the kind is missing or unknown.
func PeriodFromFilters(f map[string]string, now time.Time, weekStart time.Weekday) Period {
	kind, err := ParseKind(f[FilterType])
	if err != nil {
		return NewPeriod(Today, now, weekStart)
	}
	if kind == Custom {
		return Period{Kind: Custom, Start: f[FilterStart], End: f[FilterEnd]}
	}
	p := NewPeriod(kind, now, weekStart)
	if f[FilterStart] != "" && f[FilterEnd] != "" {
		p.Start, p.End = f[FilterStart], f[FilterEnd]
	}
	return p
}

func (p Period) String() string {
	return fmt.Sprintf("%s (%s to %s)", p.Kind.Label(), p.Start, p.End)
}
