// Package dashboard computes the period-scoped revenue and booking
// summary across the service lines, plus active staff counts.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/fitadmin/internal/api"
)

// Line names a service line.
type Line string

const (
	Fitness Line = "fitness"
	Yoga    Line = "yoga"
	Diet    Line = "diet"
)

// Source serves the three payment listings.
type Source interface {
	FitnessPayments(ctx context.Context, p api.ListParams) (api.Page[api.Payment], error)
	YogaPayments(ctx context.Context, p api.ListParams) (api.Page[api.Payment], error)
	DietPayments(ctx context.Context, p api.ListParams) (api.Page[api.DietBooking], error)
}

// StaffSource serves the user and trainer listings.
type StaffSource interface {
	Users(ctx context.Context, p api.ListParams) (api.Page[api.User], error)
	Trainers(ctx context.Context, p api.ListParams) (api.Page[api.Trainer], error)
}

// Options bound how many rows are pulled per line.
type Options struct {
	PageSize int
	MaxRows  int
	Logger   *slog.Logger
}

const (
	DefaultPageSize = 500
	DefaultMaxRows  = 10000
)

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.PageSize > o.MaxRows {
		o.PageSize = o.MaxRows
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// outcome is one row reduced to what the summary needs.
type outcome struct {
	success bool
	amount  float64
}

// Fitness and yoga rows carry status and amount themselves.
func flatOutcome(p api.Payment) outcome {
	if p.Status != api.PaymentSuccess {
		return outcome{}
	}
	return outcome{success: true, amount: p.Amount.Float()}
}

// Diet rows keep the payment in the first nested payment record.
func dietOutcome(d api.DietBooking) outcome {
	pay := d.FirstPayment()
	if pay == nil || pay.Status != api.PaymentSuccess {
		return outcome{}
	}
	return outcome{success: true, amount: pay.Amount.Float()}
}

// LineStats is the reduction of one service line.
type LineStats struct {
	Line      Line
	Success   int
	Failed    int
	Revenue   float64
	Truncated bool
}

// serviceLine pairs a line with its own fetch and extraction.
type serviceLine struct {
	line   Line
	reduce func(ctx context.Context, src Source, filters map[string]string, o Options) (LineStats, error)
}

var serviceLines = []serviceLine{
	{line: Fitness, reduce: func(ctx context.Context, src Source, f map[string]string, o Options) (LineStats, error) {
		return reduceLine(ctx, Fitness, src.FitnessPayments, flatOutcome, f, o)
	}},
	{line: Yoga, reduce: func(ctx context.Context, src Source, f map[string]string, o Options) (LineStats, error) {
		return reduceLine(ctx, Yoga, src.YogaPayments, flatOutcome, f, o)
	}},
	{line: Diet, reduce: func(ctx context.Context, src Source, f map[string]string, o Options) (LineStats, error) {
		return reduceLine(ctx, Diet, src.DietPayments, dietOutcome, f, o)
	}},
}

func reduceLine[T any](
	ctx context.Context,
	line Line,
	fetch func(context.Context, api.ListParams) (api.Page[T], error),
	extract func(T) outcome,
	filters map[string]string,
	o Options,
) (LineStats, error) {
	rows, truncated, err := collect(ctx, fetch, filters, o)
	if err != nil {
		return LineStats{}, err
	}
	st := LineStats{Line: line, Truncated: truncated}
	for _, row := range rows {
		out := extract(row)
		if out.success {
			st.Success++
			st.Revenue += out.amount
		} else {
			st.Failed++
		}
	}
	return st, nil
}

// collect pages through a listing until the count is reached or
// MaxRows rows are held. truncated reports that rows were left behind.
func collect[T any](ctx context.Context, fetch func(context.Context, api.ListParams) (api.Page[T], error), filters map[string]string, o Options) ([]T, bool, error) {
	var rows []T
	for {
		limit := min(o.PageSize, o.MaxRows-len(rows))
		page, err := fetch(ctx, api.ListParams{Limit: limit, Offset: len(rows), Filters: filters})
		if err != nil {
			return nil, false, err
		}
		rows = append(rows, page.Rows...)
		if len(page.Rows) < limit || len(rows) >= page.Count {
			return rows, false, nil
		}
		if len(rows) >= o.MaxRows {
			return rows, true, nil
		}
	}
}

// Summary is the dashboard's period view.
type Summary struct {
	Period    Period
	Lines     []LineStats
	Total     float64
	Truncated bool
}

// Line returns the stats for l.
func (s Summary) Line(l Line) LineStats {
	for _, st := range s.Lines {
		if st.Line == l {
			return st
		}
	}
	return LineStats{Line: l}
}

// Aggregate fetches the three service lines concurrently and reduces
// them. Any line failing fails the whole summary.
func Aggregate(ctx context.Context, src Source, p Period, o Options) (Summary, error) {
	o = o.withDefaults()
	filters := p.Filters()

	stats := make([]LineStats, len(serviceLines))
	g, gctx := errgroup.WithContext(ctx)
	for i, sl := range serviceLines {
		g.Go(func() error {
			st, err := sl.reduce(gctx, src, filters, o)
			if err != nil {
				return fmt.Errorf("%s payments: %w", sl.line, err)
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.Logger.Warn("dashboard_aggregate_failed", "period", p.Kind, "error", err)
		return Summary{}, err
	}

	sum := Summary{Period: p, Lines: stats}
	for _, st := range stats {
		sum.Total += st.Revenue
		sum.Truncated = sum.Truncated || st.Truncated
	}
	o.Logger.Info("dashboard_aggregate", "period", p.Kind, "start", p.Start, "end", p.End, "total", sum.Total)
	return sum, nil
}

// Staff holds active and inactive counts for users and trainers.
type Staff struct {
	ActiveUsers      int
	InactiveUsers    int
	ActiveTrainers   int
	InactiveTrainers int
	Truncated        bool
}

// StaffCounts counts users with status 1 and unblocked trainers as
// active.
func StaffCounts(ctx context.Context, src StaffSource, o Options) (Staff, error) {
	o = o.withDefaults()

	var users []api.User
	var trainers []api.Trainer
	var usersCut, trainersCut bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, usersCut, err = collect(gctx, src.Users, nil, o)
		return err
	})
	g.Go(func() error {
		var err error
		trainers, trainersCut, err = collect(gctx, src.Trainers, nil, o)
		return err
	})
	if err := g.Wait(); err != nil {
		o.Logger.Warn("staff_counts_failed", "error", err)
		return Staff{}, err
	}

	s := Staff{Truncated: usersCut || trainersCut}
	for _, u := range users {
		if u.Status == 1 {
			s.ActiveUsers++
		}
	}
	s.InactiveUsers = len(users) - s.ActiveUsers
	for _, t := range trainers {
		if t.BlockStatus == api.BlockUnblocked {
			s.ActiveTrainers++
		}
	}
	s.InactiveTrainers = len(trainers) - s.ActiveTrainers
	return s, nil
}

// Money formats a rupee amount with digit grouping.
func Money(v float64) string {
	return "₹" + humanize.CommafWithDigits(v, 2)
}

// Count formats a count with digit grouping.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
