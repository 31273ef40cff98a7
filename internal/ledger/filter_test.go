package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func entry(day string, movement core.MovementType, amount string, inst, cat string, status core.Status) core.Entry {
	d, ok := core.ParseDate(day)
	if !ok {
		panic("bad test date: " + day)
	}
	return core.Entry{
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Movement:    movement,
		Institution: inst,
		Category:    cat,
		Status:      status,
	}
}

func sampleLedger() []core.Entry {
	return []core.Entry{
		entry("2023-12-20", core.MovementIncome, "500", "Itaú", "Salário", core.StatusRealized),
		entry("2024-01-05", core.MovementIncome, "1000.50", "Itaú", "Salário", core.StatusRealized),
		entry("2024-01-10", core.MovementExpense, "200", "Nubank", "Mercado", core.StatusProjected),
		entry("2024-02-01", core.MovementExpense, "80", "Itaú", "Transporte", core.StatusRealized),
	}
}

func TestFilterByMonth(t *testing.T) {
	got := Filter(sampleLedger(), core.FilterSpec{Month: "2024-01"})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.MonthKey() != "2024-01" {
			t.Errorf("entry outside month: %s", e.Date)
		}
	}
}

func TestFilterCalendarBoundaries(t *testing.T) {
	// 2024-02-01 belongs to February even though it is within 30 days of
	// mid-January entries.
	got := Filter(sampleLedger(), core.FilterSpec{Month: "2024-02"})
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Date.Day() != 1 {
		t.Errorf("unexpected entry: %s", got[0].Date)
	}
}

func TestFilterNoMatchIsEmptyNotError(t *testing.T) {
	got := Filter(sampleLedger(), core.FilterSpec{Month: "2019-07"})
	if len(got) != 0 {
		t.Fatalf("got %d entries, want 0", len(got))
	}
}

func TestFilterBySets(t *testing.T) {
	spec := core.FilterSpec{
		Institutions: []string{"Itaú"},
		Statuses:     []string{string(core.StatusRealized)},
	}
	got := Filter(sampleLedger(), spec)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for _, e := range got {
		if e.Institution != "Itaú" || e.Status != core.StatusRealized {
			t.Errorf("entry escaped set filter: %+v", e)
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	spec := core.FilterSpec{Month: "2024-01", Institutions: []string{"Itaú", "Nubank"}}
	once := Filter(sampleLedger(), spec)
	twice := Filter(once, spec)
	if len(once) != len(twice) {
		t.Fatalf("idempotence broken: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Date.Equal(twice[i].Date) {
			t.Errorf("order changed on refilter at %d", i)
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	in := sampleLedger()
	got := Filter(in, core.FilterSpec{})
	if len(got) != len(in) {
		t.Fatalf("got %d entries, want %d", len(got), len(in))
	}
	for i := range in {
		if !got[i].Date.Equal(in[i].Date) {
			t.Errorf("order not preserved at %d", i)
		}
	}
}

func TestPrior(t *testing.T) {
	got := Prior(sampleLedger(), core.FilterSpec{Month: "2024-01"})
	if len(got) != 1 {
		t.Fatalf("got %d prior entries, want 1", len(got))
	}
	if got[0].MonthKey() != "2023-12" {
		t.Errorf("prior entry month = %s, want 2023-12", got[0].MonthKey())
	}

	// Set selections still apply to the prior subset.
	got = Prior(sampleLedger(), core.FilterSpec{Month: "2024-01", Institutions: []string{"Nubank"}})
	if len(got) != 0 {
		t.Fatalf("got %d prior entries, want 0 under institution filter", len(got))
	}
}

func TestPriorExcludesPeriodStart(t *testing.T) {
	ledger := []core.Entry{
		entry("2024-01-31", core.MovementIncome, "1", "a", "b", core.StatusRealized),
		entry("2024-02-01", core.MovementIncome, "2", "a", "b", core.StatusRealized),
	}
	got := Prior(ledger, core.FilterSpec{Month: "2024-02"})
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !got[0].Date.Equal(want) {
		t.Errorf("prior entry = %s, want %s", got[0].Date, want)
	}
}

func TestPriorWithoutMonth(t *testing.T) {
	if got := Prior(sampleLedger(), core.FilterSpec{}); len(got) != 0 {
		t.Errorf("prior without month selection = %d entries, want 0", len(got))
	}
}

func TestDistinctLists(t *testing.T) {
	ledger := sampleLedger()
	months := Months(ledger)
	want := []string{"2023-12", "2024-01", "2024-02"}
	if len(months) != len(want) {
		t.Fatalf("months = %v, want %v", months, want)
	}
	insts := Institutions(ledger)
	if len(insts) != 2 {
		t.Errorf("institutions = %v, want 2 distinct", insts)
	}
	if insts[0] != "Itaú" {
		t.Errorf("first-seen order broken: %v", insts)
	}
	if cats := Categories(ledger); len(cats) != 3 {
		t.Errorf("categories = %v, want 3 distinct", cats)
	}
	if sts := Statuses(ledger); len(sts) != 2 {
		t.Errorf("statuses = %v, want 2 distinct", sts)
	}
}
