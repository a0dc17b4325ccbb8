package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/logging"
)

type fakeSource struct {
	fitness []api.Payment
	yoga    []api.Payment
	diet    []api.DietBooking
	dietErr error

	users    []api.User
	trainers []api.Trainer

	calls []api.ListParams
}

func page[T any](all []T, p api.ListParams) api.Page[T] {
	end := min(p.Offset+p.Limit, len(all))
	if p.Offset >= len(all) {
		return api.Page[T]{Count: len(all)}
	}
	return api.Page[T]{Rows: all[p.Offset:end], Count: len(all)}
}

func (f *fakeSource) FitnessPayments(ctx context.Context, p api.ListParams) (api.Page[api.Payment], error) {
	return page(f.fitness, p), nil
}

func (f *fakeSource) YogaPayments(ctx context.Context, p api.ListParams) (api.Page[api.Payment], error) {
	return page(f.yoga, p), nil
}

func (f *fakeSource) DietPayments(ctx context.Context, p api.ListParams) (api.Page[api.DietBooking], error) {
	if f.dietErr != nil {
		return api.Page[api.DietBooking]{}, f.dietErr
	}
	return page(f.diet, p), nil
}

func (f *fakeSource) Users(ctx context.Context, p api.ListParams) (api.Page[api.User], error) {
	return page(f.users, p), nil
}

func (f *fakeSource) Trainers(ctx context.Context, p api.ListParams) (api.Page[api.Trainer], error) {
	f.calls = append(f.calls, p)
	return page(f.trainers, p), nil
}

func paid(amount float64) api.Payment {
	return api.Payment{Status: api.PaymentSuccess, Amount: api.Amount(amount)}
}

func testOptions() Options {
	return Options{Logger: logging.Discard()}
}

// ============================================================
// Aggregate
// ============================================================

func TestAggregate(t *testing.T) {
	src := &fakeSource{
		fitness: []api.Payment{paid(1000), paid(499.5), {Status: "failed", Amount: 700}},
		yoga:    []api.Payment{paid(300), {Status: "pending"}},
		diet: []api.DietBooking{
			{Payments: []api.Payment{paid(250)}},
			{Payments: []api.Payment{{Status: "failed", Amount: 900}}},
			{},
		},
	}
	p := NewPeriod(Monthly, fixedNow, time.Monday)

	sum, err := Aggregate(context.Background(), src, p, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	fit := sum.Line(Fitness)
	if fit.Success != 2 || fit.Failed != 1 || fit.Revenue != 1499.5 {
		t.Fatalf("fitness = %+v", fit)
	}
	yoga := sum.Line(Yoga)
	if yoga.Success != 1 || yoga.Failed != 1 || yoga.Revenue != 300 {
		t.Fatalf("yoga = %+v", yoga)
	}
	diet := sum.Line(Diet)
	if diet.Success != 1 || diet.Failed != 2 || diet.Revenue != 250 {
		t.Fatalf("diet = %+v", diet)
	}
	if sum.Total != 2049.5 {
		t.Fatalf("total = %v", sum.Total)
	}
	if sum.Truncated {
		t.Fatal("nothing should be truncated")
	}
}

func TestAggregateDietFailureDiscardsAll(t *testing.T) {
	src := &fakeSource{
		fitness: []api.Payment{paid(1000)},
		yoga:    []api.Payment{paid(300)},
		dietErr: errors.New("boom"),
	}
	sum, err := Aggregate(context.Background(), src, NewPeriod(Today, fixedNow, time.Monday), testOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	if sum.Total != 0 || len(sum.Lines) != 0 {
		t.Fatalf("partial summary leaked: %+v", sum)
	}
}

func TestAggregatePagesAndTruncates(t *testing.T) {
	var fitness []api.Payment
	for i := 0; i < 25; i++ {
		fitness = append(fitness, paid(1))
	}
	src := &fakeSource{fitness: fitness}

	sum, err := Aggregate(context.Background(), src, NewPeriod(Today, fixedNow, time.Monday),
		Options{PageSize: 10, MaxRows: 100, Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Line(Fitness).Success != 25 || sum.Truncated {
		t.Fatalf("paged = %+v", sum.Line(Fitness))
	}

	sum, err = Aggregate(context.Background(), src, NewPeriod(Today, fixedNow, time.Monday),
		Options{PageSize: 10, MaxRows: 20, Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Line(Fitness).Success != 20 || !sum.Truncated {
		t.Fatalf("capped = %+v truncated=%v", sum.Line(Fitness), sum.Truncated)
	}
}

// ============================================================
// Staff
// ============================================================

func TestStaffCounts(t *testing.T) {
	src := &fakeSource{
		users: []api.User{{Status: 1}, {Status: 0}, {Status: 1}},
		trainers: []api.Trainer{
			{BlockStatus: api.BlockUnblocked},
			{BlockStatus: api.BlockBlocked},
			{BlockStatus: ""},
		},
	}
	s, err := StaffCounts(context.Background(), src, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if s.ActiveUsers != 2 || s.InactiveUsers != 1 || s.ActiveTrainers != 1 || s.InactiveTrainers != 2 {
		t.Fatalf("staff = %+v", s)
	}
	if len(src.calls) != 1 || src.calls[0].Offset != 0 || src.calls[0].Limit != DefaultPageSize {
		t.Fatalf("trainer calls = %+v", src.calls)
	}
}

func TestMoney(t *testing.T) {
	if got := Money(1234567.5); got != "₹1,234,567.5" {
		t.Fatalf("Money = %q", got)
	}
	if got := Count(12000); got != "12,000" {
		t.Fatalf("Count = %q", got)
	}
}
