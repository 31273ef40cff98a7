package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func TestGroupByDay(t *testing.T) {
	entries := []core.Entry{
		entry("2024-01-05", core.MovementIncome, "1000", "a", "b", core.StatusRealized),
		entry("2024-01-05", core.MovementExpense, "100", "a", "b", core.StatusRealized),
		entry("2024-01-10", core.MovementExpense, "200", "a", "b", core.StatusRealized),
	}
	balanced := Balance(entries, decimal.Zero, core.ModeIsolated)
	days := GroupByDay(balanced)

	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	// Most recent day first.
	if days[0].Date.Day() != 10 || days[1].Date.Day() != 5 {
		t.Fatalf("days not descending: %s, %s", days[0].Date, days[1].Date)
	}

	d5 := days[1]
	if !d5.Income.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("day income = %s, want 1000", d5.Income)
	}
	if !d5.Expense.Equal(decimal.RequireFromString("100")) {
		t.Errorf("day expense = %s, want 100", d5.Expense)
	}
	if !d5.Net.Equal(decimal.RequireFromString("900")) {
		t.Errorf("day net = %s, want 900", d5.Net)
	}
	if !d5.Closing.Equal(decimal.RequireFromString("900")) {
		t.Errorf("day 5 closing = %s, want 900", d5.Closing)
	}
	if len(d5.Entries) != 2 {
		t.Errorf("day 5 entries = %d, want 2", len(d5.Entries))
	}

	d10 := days[0]
	// Closing is cumulative through the day, not a day-local sum: it must
	// differ from the day net because prior days exist.
	if !d10.Closing.Equal(decimal.RequireFromString("700")) {
		t.Errorf("day 10 closing = %s, want 700", d10.Closing)
	}
	if !d10.Net.Equal(decimal.RequireFromString("-200")) {
		t.Errorf("day 10 net = %s, want -200", d10.Net)
	}
	if d10.Closing.Equal(d10.Net) {
		t.Error("closing equals day net despite prior history")
	}
	if d10.Weekday != "quarta-feira" {
		t.Errorf("weekday = %q, want quarta-feira", d10.Weekday)
	}
}

func TestGroupByDayClosingUsesLastEntry(t *testing.T) {
	entries := []core.Entry{
		entry("2024-01-05", core.MovementIncome, "10", "a", "b", core.StatusRealized),
		entry("2024-01-05", core.MovementIncome, "20", "a", "b", core.StatusRealized),
		entry("2024-01-05", core.MovementExpense, "5", "a", "b", core.StatusRealized),
	}
	balanced := Balance(entries, decimal.RequireFromString("100"), core.ModeCumulative)
	days := GroupByDay(balanced)
	if len(days) != 1 {
		t.Fatalf("got %d days, want 1", len(days))
	}
	if !days[0].Closing.Equal(decimal.RequireFromString("125")) {
		t.Errorf("closing = %s, want 125 (base 100 +10 +20 -5)", days[0].Closing)
	}
}

func TestBuildViewCumulative(t *testing.T) {
	view := BuildView(sampleLedger(), core.FilterSpec{Month: "2024-01"}, core.ModeCumulative)
	if view.IsEmpty() {
		t.Fatalf("view unexpectedly empty: %s", view.Empty)
	}
	// Carry-over from 2023-12: +500.
	if !view.KPIs.CarryOver.Equal(decimal.RequireFromString("500")) {
		t.Errorf("carry-over = %s, want 500", view.KPIs.CarryOver)
	}
	// Period: +1000.50 income, -200 expense.
	if !view.KPIs.FinalBalance.Equal(decimal.RequireFromString("1300.5")) {
		t.Errorf("final balance = %s, want 1300.50", view.KPIs.FinalBalance)
	}
	if !view.KPIs.ProjectedExpense.Equal(decimal.RequireFromString("200")) {
		t.Errorf("projected expense = %s, want 200", view.KPIs.ProjectedExpense)
	}
	if len(view.Days) != 2 {
		t.Errorf("got %d days, want 2", len(view.Days))
	}
	last := view.Entries[len(view.Entries)-1]
	if !last.Running.Equal(view.KPIs.FinalBalance) {
		t.Errorf("last running %s != final balance %s", last.Running, view.KPIs.FinalBalance)
	}
}

func TestBuildViewIsolated(t *testing.T) {
	view := BuildView(sampleLedger(), core.FilterSpec{Month: "2024-01"}, core.ModeIsolated)
	if !view.KPIs.CarryOver.IsZero() {
		t.Errorf("isolated carry-over = %s, want 0", view.KPIs.CarryOver)
	}
	if !view.KPIs.FinalBalance.Equal(decimal.RequireFromString("800.5")) {
		t.Errorf("isolated final balance = %s, want 800.50", view.KPIs.FinalBalance)
	}
}

func TestBuildViewEmptyStates(t *testing.T) {
	view := BuildView(nil, core.FilterSpec{}, core.ModeCumulative)
	if view.Empty != core.EmptySource {
		t.Errorf("empty source reason = %q, want %q", view.Empty, core.EmptySource)
	}
	if !view.KPIs.FinalBalance.IsZero() {
		t.Errorf("empty view final balance = %s, want 0", view.KPIs.FinalBalance)
	}

	view = BuildView(sampleLedger(), core.FilterSpec{Month: "2030-01"}, core.ModeCumulative)
	if view.Empty != core.EmptyFilter {
		t.Errorf("empty filter reason = %q, want %q", view.Empty, core.EmptyFilter)
	}
	if len(view.Days) != 0 || len(view.Entries) != 0 {
		t.Error("empty view carries entries")
	}
}
