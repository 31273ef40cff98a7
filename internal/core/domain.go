package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MovementIncome  MovementType = "Receita"
	MovementExpense MovementType = "Despesa"

	StatusRealized  Status = "Realizado"
	StatusProjected Status = "Projetado"

	// Unspecified marks a classification column that was absent from the
	// source schema; Blank marks an empty cell in a column that exists.
	Unspecified = "Não informado"
	Blank       = "-"
)

type (
	MovementType string

	Status string

	// RawRecord is one spreadsheet row as read from a source: an unordered
	// mapping from column name to the cell's string value. No schema is
	// guaranteed; any column may be missing.
	RawRecord map[string]string

	// Entry is one normalized ledger transaction. Amount is always a
	// non-negative magnitude; direction comes from Movement.
	Entry struct {
		RowID       string
		Date        time.Time
		Amount      decimal.Decimal
		Movement    MovementType
		Status      Status
		Institution string
		Category    string
		Description string
	}

	// FilterSpec selects a subset of the ledger. Month is a "2006-01" key;
	// empty means no month restriction. Empty sets mean "all".
	FilterSpec struct {
		Month        string
		Institutions []string
		Categories   []string
		Statuses     []string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid transaction date")
	ErrNegativeValue = errors.New("negative amount")
)

// SignedAmount applies direction: +Amount for income, -Amount for expense.
// Any other movement literal contributes zero to balance computation but the
// entry itself still flows through filters and listings.
func (e Entry) SignedAmount() decimal.Decimal {
	switch e.Movement {
	case MovementIncome:
		return e.Amount
	case MovementExpense:
		return e.Amount.Neg()
	}
	return decimal.Zero
}

// MonthKey returns the calendar year-month key used by the month filter.
func (e Entry) MonthKey() string {
	return e.Date.Format("2006-01")
}

// DayKey returns the calendar-day key used by the daily aggregator.
func (e Entry) DayKey() string {
	return e.Date.Format("2006-01-02")
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

// IsProjected reports whether the entry is a forecast (editable) row.
func (e Entry) IsProjected() bool {
	return e.Status == StatusProjected
}

// MonthStart returns the first instant of the month named by a "2006-01"
// key, and false for malformed keys.
func MonthStart(monthKey string) (time.Time, bool) {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
