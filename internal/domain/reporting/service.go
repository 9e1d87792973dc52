// Package reporting computes sales and expense totals for the
// dashboard: how much came in today, this month and this year, plus
// arbitrary date-range breakdowns. Rendering (PDF export) happens in
// the client; this package only serves rows and sums.
package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinicore/clinicore/internal/domain/expense"
	"github.com/clinicore/clinicore/internal/domain/ledger"
)

// TransactionSource is the slice of the ledger the reports read.
// The ledger transaction repository satisfies it.
type TransactionSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*ledger.Transaction, error)
}

// ExpenseSource is satisfied by the expense repository.
type ExpenseSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*expense.Expense, error)
}

// Totals buckets amounts relative to a reference instant: the same
// calendar day, the same (month, year), and the same year.
type Totals struct {
	Day   decimal.Decimal `json:"day"`
	Month decimal.Decimal `json:"month"`
	Year  decimal.Decimal `json:"year"`
}

type Service struct {
	transactions TransactionSource
	expenses     ExpenseSource
	now          func() time.Time
}

func NewService(t TransactionSource, e ExpenseSource) *Service {
	return &Service{transactions: t, expenses: e, now: time.Now}
}

type entry struct {
	date   time.Time
	amount decimal.Decimal
}

// computeTotals is a pure fold over the entries; running it twice over
// the same input yields the same totals.
func computeTotals(entries []entry, now time.Time) Totals {
	t := Totals{Day: decimal.Zero, Month: decimal.Zero, Year: decimal.Zero}
	for _, e := range entries {
		d := e.date.In(now.Location())
		if d.Year() != now.Year() {
			continue
		}
		t.Year = t.Year.Add(e.amount)
		if d.Month() != now.Month() {
			continue
		}
		t.Month = t.Month.Add(e.amount)
		if d.Day() == now.Day() {
			t.Day = t.Day.Add(e.amount)
		}
	}
	return t
}

func yearBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), time.December, 31, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return from, to
}

// SalesTotals reports transaction totals for today, this month and this
// year.
func (s *Service) SalesTotals(ctx context.Context) (Totals, error) {
	now := s.now()
	from, to := yearBounds(now)
	items, err := s.transactions.ListByDateRange(ctx, from, to)
	if err != nil {
		return Totals{}, err
	}
	entries := make([]entry, 0, len(items))
	for _, t := range items {
		entries = append(entries, entry{date: t.Date, amount: t.Amount})
	}
	return computeTotals(entries, now), nil
}

// ExpenseTotals reports expense totals for today, this month and this
// year.
func (s *Service) ExpenseTotals(ctx context.Context) (Totals, error) {
	now := s.now()
	from, to := yearBounds(now)
	items, err := s.expenses.ListByDateRange(ctx, from, to)
	if err != nil {
		return Totals{}, err
	}
	entries := make([]entry, 0, len(items))
	for _, e := range items {
		entries = append(entries, entry{date: e.Date, amount: e.Amount})
	}
	return computeTotals(entries, now), nil
}

// SalesInRange returns the transactions dated inside the closed
// interval of whole local days [start, end] and their sum.
func (s *Service) SalesInRange(ctx context.Context, start, end time.Time) ([]*ledger.Transaction, decimal.Decimal, error) {
	from, to := ledger.DayBounds(start, end)
	items, err := s.transactions.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range items {
		sum = sum.Add(t.Amount)
	}
	return items, sum, nil
}

// ExpensesInRange returns the expenses dated inside the closed interval
// of whole local days [start, end] and their sum.
func (s *Service) ExpensesInRange(ctx context.Context, start, end time.Time) ([]*expense.Expense, decimal.Decimal, error) {
	from, to := ledger.DayBounds(start, end)
	items, err := s.expenses.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Amount)
	}
	return items, sum, nil
}
