package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceMode selects how the running balance over a filtered period is
// seeded: Cumulative carries the signed net of all prior history in,
// Isolated starts the period from zero.
type BalanceMode string

const (
	ModeCumulative BalanceMode = "cumulative"
	ModeIsolated   BalanceMode = "isolated"
)

// Label is the display name that accompanies the final balance KPI.
func (m BalanceMode) Label() string {
	if m == ModeCumulative {
		return "Saldo Acumulado"
	}
	return "Resultado do Período"
}

// EmptyReason distinguishes the two valid empty states of a view: a source
// with no usable rows versus a filter that matches nothing.
type EmptyReason string

const (
	EmptyNone   EmptyReason = ""
	EmptySource EmptyReason = "sem dados na origem"
	EmptyFilter EmptyReason = "nenhum lançamento no filtro"
)

type (
	// BalancedEntry is a ledger entry annotated with its signed amount and
	// the running balance as of that entry in the ascending timeline.
	BalancedEntry struct {
		Entry
		Signed  decimal.Decimal
		Running decimal.Decimal
	}

	// DaySummary is one calendar day of the timeline view.
	DaySummary struct {
		Date    time.Time
		Weekday string
		Entries []BalancedEntry
		Income  decimal.Decimal
		Expense decimal.Decimal
		Net     decimal.Decimal
		// Closing is the running balance of the chronologically last
		// entry of the day, i.e. the true cumulative sum through the
		// end of the day, not a day-local recomputation.
		Closing decimal.Decimal
	}

	// KPISet carries the headline figures for the selected period.
	KPISet struct {
		Income           decimal.Decimal
		Expense          decimal.Decimal
		ProjectedExpense decimal.Decimal
		PeriodNet        decimal.Decimal
		CarryOver        decimal.Decimal
		FinalBalance     decimal.Decimal
		BalanceLabel     string
	}

	// LedgerView is the complete computed state for one filter + mode,
	// consumed as-is by the presentation layer. Empty != EmptyNone means
	// the zero-valued KPIs and nil slices are intentional, not an error.
	LedgerView struct {
		Entries []BalancedEntry
		Days    []DaySummary
		KPIs    KPISet
		Mode    BalanceMode
		Empty   EmptyReason
	}
)

// IsEmpty reports whether the view carries no entries.
func (v LedgerView) IsEmpty() bool {
	return v.Empty != EmptyNone
}
