// Package core holds the ledger domain types and the parsing utilities for
// monetary amounts and transaction dates as they appear in the source sheet.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a cell value to a non-negative decimal amount.
//
// It accepts plain numbers ("200", "1234.56") and the pt-BR forms where '.'
// separates thousands and ',' is the decimal separator ("1.234,56", "1.000").
// A dot-only value counts as thousands-grouped when every group after the
// first has exactly three digits; otherwise the dot is a decimal mark. Currency
// prefixes and surrounding whitespace are ignored. A leading minus sign is
// stripped: direction is carried by the movement type, never by the amount.
//
// Examples:
//
//	ParseAmount("1.234,56") -> 1234.56
//	ParseAmount("1234.56")  -> 1234.56
//	ParseAmount("200")      -> 200
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return decimal.Decimal{}, ErrNegativeValue
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// pt-BR: dots are thousands separators, comma is the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	case hasDot && dotGroupedThousands(s):
		// Dot-only pt-BR integers like "1.000" or "1.234.567": the dots are
		// thousands separators, not a decimal mark.
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if neg {
		// Magnitude only; the sign is derived from Tipo_Movimento.
		d = d.Abs()
	}
	return d, nil
}

// dotGroupedThousands reports whether s is made of digit groups joined by
// dots in the pt-BR thousands pattern: a head of 1 to 3 digits followed by
// groups of exactly 3. "1.000" and "1.234.567" match; "1234.56" does not.
func dotGroupedThousands(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) < 2 {
		return false
	}
	for i, g := range groups {
		if i == 0 {
			if len(g) < 1 || len(g) > 3 {
				return false
			}
		} else if len(g) != 3 {
			return false
		}
		for _, r := range g {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// FormatAmount renders an amount in the pt-BR display form used by the
// dashboard: two decimals, comma decimal mark, dot thousands separators.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
