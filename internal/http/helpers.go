package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// parseFilterSpec extracts the ledger filter from query or form parameters.
// Repeated keys become set filters; an absent key means "all".
func parseFilterSpec(r *http.Request) core.FilterSpec {
	q := r.URL.Query()
	return core.FilterSpec{
		Month:        strings.TrimSpace(q.Get("month")),
		Institutions: cleanValues(q["institution"]),
		Categories:   cleanValues(q["category"]),
		Statuses:     cleanValues(q["status"]),
	}
}

// parseMode maps the mode parameter to a balance mode, defaulting to
// cumulative for anything unrecognized.
func parseMode(r *http.Request) core.BalanceMode {
	if strings.TrimSpace(r.URL.Query().Get("mode")) == string(core.ModeIsolated) {
		return core.ModeIsolated
	}
	return core.ModeCumulative
}

func cleanValues(vs []string) []string {
	var out []string
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formatMoney renders a currency figure for display, e.g. "R$ 1.234,56".
func formatMoney(d decimal.Decimal) string {
	s := core.FormatAmount(d)
	if strings.HasPrefix(s, "-") {
		return "-R$ " + strings.TrimPrefix(s, "-")
	}
	return "R$ " + s
}
