package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// CarryOver is the signed net of a prior-history subset, used to seed the
// running balance in cumulative mode.
func CarryOver(prior []core.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range prior {
		total = total.Add(e.SignedAmount())
	}
	return total
}

// Balance sorts the subset ascending by date (stable, so equal-date entries
// keep their relative input order) and annotates each entry with its signed
// amount and running balance. In cumulative mode the prefix sum starts from
// base; in isolated mode the base is ignored and the period starts at zero.
func Balance(entries []core.Entry, base decimal.Decimal, mode core.BalanceMode) []core.BalancedEntry {
	ordered := make([]core.Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	running := decimal.Zero
	if mode == core.ModeCumulative {
		running = base
	}
	out := make([]core.BalancedEntry, 0, len(ordered))
	for _, e := range ordered {
		signed := e.SignedAmount()
		running = running.Add(signed)
		out = append(out, core.BalancedEntry{Entry: e, Signed: signed, Running: running})
	}
	return out
}

// KPIs computes the headline figures for an already-balanced period.
// Income and expense sum magnitudes per movement type; movement literals
// other than Receita/Despesa count toward neither.
func KPIs(balanced []core.BalancedEntry, base decimal.Decimal, mode core.BalanceMode) core.KPISet {
	k := core.KPISet{
		Income:           decimal.Zero,
		Expense:          decimal.Zero,
		ProjectedExpense: decimal.Zero,
		BalanceLabel:     mode.Label(),
	}
	for _, e := range balanced {
		switch e.Movement {
		case core.MovementIncome:
			k.Income = k.Income.Add(e.Amount)
		case core.MovementExpense:
			k.Expense = k.Expense.Add(e.Amount)
			if e.IsProjected() {
				k.ProjectedExpense = k.ProjectedExpense.Add(e.Amount)
			}
		}
	}
	k.PeriodNet = k.Income.Sub(k.Expense)
	if mode == core.ModeCumulative {
		k.CarryOver = base
	} else {
		k.CarryOver = decimal.Zero
	}
	k.FinalBalance = k.CarryOver.Add(k.PeriodNet)
	return k
}
