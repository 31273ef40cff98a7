package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// GroupByDay folds a balanced (ascending) sequence into per-day summaries
// for the timeline view, most recent day first. The closing balance of a day
// is taken from the running balance of its last entry in the ascending pass;
// it is never recomputed day-locally, so it always equals the true cumulative
// sum through the end of that day.
func GroupByDay(balanced []core.BalancedEntry) []core.DaySummary {
	byDay := map[string]*core.DaySummary{}
	order := make([]string, 0)

	for _, e := range balanced {
		key := e.DayKey()
		day, ok := byDay[key]
		if !ok {
			day = &core.DaySummary{
				Date:    e.Date,
				Weekday: core.WeekdayLabel(e.Date),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byDay[key] = day
			order = append(order, key)
		}
		day.Entries = append(day.Entries, e)
		switch e.Movement {
		case core.MovementIncome:
			day.Income = day.Income.Add(e.Amount)
		case core.MovementExpense:
			day.Expense = day.Expense.Add(e.Amount)
		}
		// Input is ascending, so the latest assignment wins: the day
		// closes at its chronologically last entry.
		day.Closing = e.Running
	}

	out := make([]core.DaySummary, 0, len(byDay))
	for _, key := range order {
		day := byDay[key]
		day.Net = day.Income.Sub(day.Expense)
		out = append(out, *day)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// BuildView runs the full computation for one filter + mode over a
// normalized ledger and returns the explicit view consumed by the
// presentation layer. Empty states short-circuit with a reason instead of
// failing.
func BuildView(entries []core.Entry, spec core.FilterSpec, mode core.BalanceMode) core.LedgerView {
	if len(entries) == 0 {
		return core.LedgerView{Mode: mode, Empty: core.EmptySource, KPIs: emptyKPIs(mode)}
	}

	subset := Filter(entries, spec)
	if len(subset) == 0 {
		return core.LedgerView{Mode: mode, Empty: core.EmptyFilter, KPIs: emptyKPIs(mode)}
	}

	base := decimal.Zero
	if mode == core.ModeCumulative {
		base = CarryOver(Prior(entries, spec))
	}
	balanced := Balance(subset, base, mode)

	return core.LedgerView{
		Entries: balanced,
		Days:    GroupByDay(balanced),
		KPIs:    KPIs(balanced, base, mode),
		Mode:    mode,
	}
}

func emptyKPIs(mode core.BalanceMode) core.KPISet {
	return core.KPISet{
		Income:           decimal.Zero,
		Expense:          decimal.Zero,
		ProjectedExpense: decimal.Zero,
		PeriodNet:        decimal.Zero,
		CarryOver:        decimal.Zero,
		FinalBalance:     decimal.Zero,
		BalanceLabel:     mode.Label(),
	}
}
