package ledger

import (
	"fluxo/internal/core"
)

// Filter returns the entries matching the spec, preserving input order.
// The month filter compares derived "2006-01" keys so calendar month
// boundaries apply, never a rolling 30-day window. An empty result is a
// valid state the caller reports, not an error.
func Filter(entries []core.Entry, spec core.FilterSpec) []core.Entry {
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if spec.Month != "" && e.MonthKey() != spec.Month {
			continue
		}
		if !matchesSets(e, spec) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Prior returns every entry dated strictly before the first day of the
// spec's month, still honoring the institution/category/status selections.
// This subset seeds the carry-over base in cumulative mode. Without a month
// selection there is no period start, so the prior subset is empty.
func Prior(entries []core.Entry, spec core.FilterSpec) []core.Entry {
	start, ok := core.MonthStart(spec.Month)
	if !ok {
		return nil
	}
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Date.Before(start) {
			continue
		}
		if !matchesSets(e, spec) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesSets(e core.Entry, spec core.FilterSpec) bool {
	if !inSet(e.Institution, spec.Institutions) {
		return false
	}
	if !inSet(e.Category, spec.Categories) {
		return false
	}
	if !inSet(string(e.Status), spec.Statuses) {
		return false
	}
	return true
}

// inSet treats an empty selection as "all".
func inSet(v string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Months lists the distinct "2006-01" keys present, most recent first,
// for the month selector.
func Months(entries []core.Entry) []string {
	return distinct(entries, func(e core.Entry) string { return e.MonthKey() })
}

// Institutions lists the distinct institutions in first-seen order.
func Institutions(entries []core.Entry) []string {
	return distinct(entries, func(e core.Entry) string { return e.Institution })
}

// Categories lists the distinct categories in first-seen order.
func Categories(entries []core.Entry) []string {
	return distinct(entries, func(e core.Entry) string { return e.Category })
}

// Statuses lists the distinct status literals in first-seen order.
func Statuses(entries []core.Entry) []string {
	return distinct(entries, func(e core.Entry) string { return string(e.Status) })
}

func distinct(entries []core.Entry, key func(core.Entry) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, e := range entries {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
