package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func TestBalanceWithCarryOver(t *testing.T) {
	// Carry-over 500, signed amounts +100 then -50: balances 600, 550.
	entries := []core.Entry{
		entry("2024-03-02", core.MovementIncome, "100", "a", "b", core.StatusRealized),
		entry("2024-03-05", core.MovementExpense, "50", "a", "b", core.StatusRealized),
	}
	base := decimal.RequireFromString("500")

	balanced := Balance(entries, base, core.ModeCumulative)
	if len(balanced) != 2 {
		t.Fatalf("got %d balanced entries, want 2", len(balanced))
	}
	if !balanced[0].Running.Equal(decimal.RequireFromString("600")) {
		t.Errorf("first running = %s, want 600", balanced[0].Running)
	}
	if !balanced[1].Running.Equal(decimal.RequireFromString("550")) {
		t.Errorf("second running = %s, want 550", balanced[1].Running)
	}

	kpis := KPIs(balanced, base, core.ModeCumulative)
	if !kpis.FinalBalance.Equal(decimal.RequireFromString("550")) {
		t.Errorf("final balance = %s, want 550", kpis.FinalBalance)
	}
	if kpis.BalanceLabel != "Saldo Acumulado" {
		t.Errorf("label = %q, want Saldo Acumulado", kpis.BalanceLabel)
	}
}

func TestBalanceIsolatedIgnoresBase(t *testing.T) {
	entries := []core.Entry{
		entry("2024-03-02", core.MovementIncome, "100", "a", "b", core.StatusRealized),
	}
	balanced := Balance(entries, decimal.RequireFromString("500"), core.ModeIsolated)
	if !balanced[0].Running.Equal(decimal.RequireFromString("100")) {
		t.Errorf("isolated running = %s, want 100", balanced[0].Running)
	}
	kpis := KPIs(balanced, decimal.RequireFromString("500"), core.ModeIsolated)
	if !kpis.CarryOver.IsZero() {
		t.Errorf("isolated carry-over = %s, want 0", kpis.CarryOver)
	}
	if !kpis.FinalBalance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("isolated final = %s, want 100", kpis.FinalBalance)
	}
	if kpis.BalanceLabel != "Resultado do Período" {
		t.Errorf("label = %q, want Resultado do Período", kpis.BalanceLabel)
	}
}

func TestBalanceSortsAscendingStable(t *testing.T) {
	entries := []core.Entry{
		entry("2024-03-05", core.MovementExpense, "50", "a", "b", core.StatusRealized),
		entry("2024-03-02", core.MovementIncome, "100", "a", "b", core.StatusRealized),
		// Same date as the first: stable sort keeps it after.
		entry("2024-03-05", core.MovementIncome, "10", "a", "b", core.StatusRealized),
	}
	balanced := Balance(entries, decimal.Zero, core.ModeIsolated)
	if !balanced[0].Date.Before(balanced[1].Date) {
		t.Fatal("not sorted ascending")
	}
	if !balanced[1].Amount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("tie order broken: second entry amount = %s, want 50", balanced[1].Amount)
	}
	if !balanced[2].Amount.Equal(decimal.RequireFromString("10")) {
		t.Errorf("tie order broken: third entry amount = %s, want 10", balanced[2].Amount)
	}
}

func TestLastRunningEqualsBasePlusTotal(t *testing.T) {
	entries := sampleLedger()
	base := decimal.RequireFromString("123.45")
	balanced := Balance(entries, base, core.ModeCumulative)

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.SignedAmount())
	}
	want := base.Add(total)
	last := balanced[len(balanced)-1].Running
	if !last.Equal(want) {
		t.Errorf("last running = %s, want base+sum = %s", last, want)
	}
}

func TestCarryOver(t *testing.T) {
	prior := []core.Entry{
		entry("2023-12-01", core.MovementIncome, "300", "a", "b", core.StatusRealized),
		entry("2023-12-15", core.MovementExpense, "120.50", "a", "b", core.StatusRealized),
	}
	got := CarryOver(prior)
	if !got.Equal(decimal.RequireFromString("179.5")) {
		t.Errorf("carry-over = %s, want 179.50", got)
	}
	if !CarryOver(nil).IsZero() {
		t.Error("carry-over of empty prior subset should be zero")
	}
}

func TestKPIsScenario(t *testing.T) {
	// Spec scenario: income 1000.50 realized + expense 200 projected.
	entries := []core.Entry{
		entry("2024-01-05", core.MovementIncome, "1000.50", "a", "b", core.StatusRealized),
		entry("2024-01-10", core.MovementExpense, "200", "a", "b", core.StatusProjected),
	}
	balanced := Balance(entries, decimal.Zero, core.ModeCumulative)
	kpis := KPIs(balanced, decimal.Zero, core.ModeCumulative)

	if !kpis.Income.Equal(decimal.RequireFromString("1000.5")) {
		t.Errorf("income = %s, want 1000.50", kpis.Income)
	}
	if !kpis.Expense.Equal(decimal.RequireFromString("200")) {
		t.Errorf("expense = %s, want 200", kpis.Expense)
	}
	if !kpis.ProjectedExpense.Equal(decimal.RequireFromString("200")) {
		t.Errorf("projected expense = %s, want 200", kpis.ProjectedExpense)
	}
	if !kpis.PeriodNet.Equal(decimal.RequireFromString("800.5")) {
		t.Errorf("period net = %s, want 800.50", kpis.PeriodNet)
	}
	if !balanced[len(balanced)-1].Running.Equal(decimal.RequireFromString("800.5")) {
		t.Errorf("cumulative balance = %s, want 800.50", balanced[len(balanced)-1].Running)
	}
}

func TestKPIsIgnoreUnknownMovements(t *testing.T) {
	entries := []core.Entry{
		entry("2024-01-05", core.MovementIncome, "100", "a", "b", core.StatusRealized),
		entry("2024-01-06", "Estorno", "999", "a", "b", core.StatusRealized),
	}
	balanced := Balance(entries, decimal.Zero, core.ModeIsolated)
	kpis := KPIs(balanced, decimal.Zero, core.ModeIsolated)
	if !kpis.Income.Equal(decimal.RequireFromString("100")) {
		t.Errorf("income = %s, want 100", kpis.Income)
	}
	if !kpis.Expense.IsZero() {
		t.Errorf("expense = %s, want 0", kpis.Expense)
	}
	// The unknown row still flows through with a zero signed amount.
	if len(balanced) != 2 {
		t.Fatalf("unknown movement dropped from balanced sequence")
	}
	if !balanced[1].Signed.IsZero() {
		t.Errorf("unknown movement signed = %s, want 0", balanced[1].Signed)
	}
}
