package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinicore/clinicore/internal/domain/expense"
	"github.com/clinicore/clinicore/internal/domain/ledger"
)

type mockTxnSource struct {
	items []*ledger.Transaction
}

func (m *mockTxnSource) ListByDateRange(_ context.Context, start, end time.Time) ([]*ledger.Transaction, error) {
	var result []*ledger.Transaction
	for _, t := range m.items {
		if !t.Date.Before(start) && !t.Date.After(end) {
			result = append(result, t)
		}
	}
	return result, nil
}

type mockExpenseSource struct {
	items []*expense.Expense
}

func (m *mockExpenseSource) ListByDateRange(_ context.Context, start, end time.Time) ([]*expense.Expense, error) {
	var result []*expense.Expense
	for _, e := range m.items {
		if !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txnAt(date time.Time, amount string) *ledger.Transaction {
	return &ledger.Transaction{PatientName: "X", ServiceName: "S", Amount: dec(amount), Date: date}
}

func TestSalesTotals_Buckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	txns := &mockTxnSource{items: []*ledger.Transaction{
		txnAt(time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local), "100"),  // today
		txnAt(time.Date(2025, 6, 15, 22, 0, 0, 0, time.Local), "50"),  // today, later
		txnAt(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local), "200"),   // this month
		txnAt(time.Date(2025, 2, 10, 9, 0, 0, 0, time.Local), "400"),  // this year
		txnAt(time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local), "800"),  // last year
		txnAt(time.Date(2024, 12, 31, 23, 59, 0, 0, time.Local), "1"), // year boundary
	}}
	svc := NewService(txns, &mockExpenseSource{})
	svc.now = func() time.Time { return now }

	totals, err := svc.SalesTotals(context.Background())
	if err != nil {
		t.Fatalf("SalesTotals: %v", err)
	}
	if !totals.Day.Equal(dec("150")) {
		t.Errorf("day = %s, want 150", totals.Day)
	}
	if !totals.Month.Equal(dec("350")) {
		t.Errorf("month = %s, want 350", totals.Month)
	}
	if !totals.Year.Equal(dec("750")) {
		t.Errorf("year = %s, want 750", totals.Year)
	}
}

func TestSalesTotals_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	txns := &mockTxnSource{items: []*ledger.Transaction{
		txnAt(time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local), "100"),
		txnAt(time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local), "250"),
	}}
	svc := NewService(txns, &mockExpenseSource{})
	svc.now = func() time.Time { return now }

	first, err := svc.SalesTotals(context.Background())
	if err != nil {
		t.Fatalf("SalesTotals: %v", err)
	}
	second, err := svc.SalesTotals(context.Background())
	if err != nil {
		t.Fatalf("SalesTotals: %v", err)
	}
	if !first.Day.Equal(second.Day) || !first.Month.Equal(second.Month) || !first.Year.Equal(second.Year) {
		t.Errorf("totals changed between runs: %+v vs %+v", first, second)
	}
}

func TestSalesTotals_JanuaryFirst(t *testing.T) {
	// Dec 31 and Jan 1 sit in different day, month and year buckets.
	now := time.Date(2025, 1, 1, 1, 0, 0, 0, time.Local)
	txns := &mockTxnSource{items: []*ledger.Transaction{
		txnAt(time.Date(2024, 12, 31, 23, 0, 0, 0, time.Local), "500"),
		txnAt(time.Date(2025, 1, 1, 0, 30, 0, 0, time.Local), "100"),
	}}
	svc := NewService(txns, &mockExpenseSource{})
	svc.now = func() time.Time { return now }

	totals, err := svc.SalesTotals(context.Background())
	if err != nil {
		t.Fatalf("SalesTotals: %v", err)
	}
	for name, got := range map[string]decimal.Decimal{
		"day": totals.Day, "month": totals.Month, "year": totals.Year,
	} {
		if !got.Equal(dec("100")) {
			t.Errorf("%s = %s, want 100", name, got)
		}
	}
}

func TestExpenseTotals(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	exps := &mockExpenseSource{items: []*expense.Expense{
		{Title: "Gloves", Amount: dec("300"), Date: time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)},
		{Title: "Rent", Amount: dec("5000"), Date: time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)},
		{Title: "Permit", Amount: dec("1200"), Date: time.Date(2025, 1, 5, 9, 0, 0, 0, time.Local)},
	}}
	svc := NewService(&mockTxnSource{}, exps)
	svc.now = func() time.Time { return now }

	totals, err := svc.ExpenseTotals(context.Background())
	if err != nil {
		t.Fatalf("ExpenseTotals: %v", err)
	}
	if !totals.Day.Equal(dec("300")) {
		t.Errorf("day = %s, want 300", totals.Day)
	}
	if !totals.Month.Equal(dec("5300")) {
		t.Errorf("month = %s, want 5300", totals.Month)
	}
	if !totals.Year.Equal(dec("6500")) {
		t.Errorf("year = %s, want 6500", totals.Year)
	}
}

func TestSalesInRange_InclusiveEndpoints(t *testing.T) {
	txns := &mockTxnSource{items: []*ledger.Transaction{
		txnAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), "100"),
		txnAt(time.Date(2025, 3, 10, 23, 59, 59, 0, time.Local), "200"),
		txnAt(time.Date(2025, 2, 28, 23, 59, 59, 0, time.Local), "400"),
		txnAt(time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local), "800"),
	}}
	svc := NewService(txns, &mockExpenseSource{})

	items, sum, err := svc.SalesInRange(context.Background(),
		time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local),
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("SalesInRange: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(items))
	}
	if !sum.Equal(dec("300")) {
		t.Errorf("sum = %s, want 300", sum)
	}
}
