package dashboard

import (
	"testing"
	"time"
)

// Wednesday.
var fixedNow = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func TestRangeToday(t *testing.T) {
	p := NewPeriod(Today, fixedNow, time.Monday)
	if p.Start != "2026-10-14" || p.End != "2026-10-14" {
		t.Fatalf("today = %+v", p)
	}
}

func TestRangeWeeklyMonday(t *testing.T) {
	p := NewPeriod(Weekly, fixedNow, time.Monday)
	if p.Start != "2026-10-12" || p.End != "2026-10-18" {
		t.Fatalf("weekly = %+v", p)
	}
}

func TestRangeWeeklyOnWeekBoundaries(t *testing.T) {
	sunday := time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC)
	p := NewPeriod(Weekly, sunday, time.Monday)
	if p.Start != "2026-10-12" || p.End != "2026-10-18" {
		t.Fatalf("monday week containing sunday = %+v", p)
	}

	p = NewPeriod(Weekly, sunday, time.Sunday)
	if p.Start != "2026-10-18" || p.End != "2026-10-24" {
		t.Fatalf("sunday week = %+v", p)
	}
}

func TestRangeMonthly(t *testing.T) {
	feb := time.Date(2028, time.February, 10, 0, 0, 0, 0, time.UTC)
	p := NewPeriod(Monthly, feb, time.Monday)
	if p.Start != "2028-02-01" || p.End != "2028-02-29" {
		t.Fatalf("monthly = %+v", p)
	}
}

func TestRangeYearly(t *testing.T) {
	p := NewPeriod(Yearly, fixedNow, time.Monday)
	if p.Start != "2026-01-01" || p.End != "2026-12-31" {
		t.Fatalf("yearly = %+v", p)
	}
}

func TestSelectCustomKeepsDates(t *testing.T) {
	p := NewPeriod(Weekly, fixedNow, time.Monday)
	p = p.Select(Custom, fixedNow.AddDate(0, 1, 0), time.Monday)
	if p.Kind != Custom || p.Start != "2026-10-12" || p.End != "2026-10-18" {
		t.Fatalf("custom = %+v", p)
	}

	p = p.WithDates("2026-10-20", "2026-10-01")
	if p.Start != "2026-10-20" || p.End != "2026-10-01" {
		t.Fatal("custom dates are taken as given")
	}

	p = p.Select(Monthly, fixedNow, time.Monday)
	if p.Kind != Monthly || p.Start != "2026-10-01" || p.End != "2026-10-31" {
		t.Fatalf("monthly after custom = %+v", p)
	}
}

func TestPeriodFilters(t *testing.T) {
	f := NewPeriod(Today, fixedNow, time.Monday).Filters()
	if f[FilterType] != "today" || f[FilterStart] != "2026-10-14" || f[FilterEnd] != "2026-10-14" {
		t.Fatalf("filters = %v", f)
	}

	back := PeriodFromFilters(f, fixedNow.AddDate(0, 0, 3), time.Monday)
	if back.Kind != Today || back.Start != "2026-10-14" {
		t.Fatalf("restored = %+v", back)
	}
	if got := PeriodFromFilters(nil, fixedNow, time.Monday); got.Kind != Today {
		t.Fatalf("default = %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("yearly"); err != nil || k != Yearly {
		t.Fatalf("ParseKind = %v %v", k, err)
	}
	if _, err := ParseKind("hourly"); err == nil {
		t.Fatal("expected error")
	}
}
