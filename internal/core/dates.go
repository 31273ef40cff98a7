package core

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The sheet normally carries dd/mm/yyyy;
// ISO forms show up in CSV exports and API-typed cells.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
}

// ParseDate parses a transaction date leniently. The boolean result is false
// when no known layout matches; callers drop such rows because an undated
// record cannot participate in chronological ordering.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Normalize to midnight UTC so day grouping is stable.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// weekdayNames maps Go weekdays to the pt-BR labels shown on the timeline.
var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// WeekdayLabel returns the localized weekday name for a date.
func WeekdayLabel(t time.Time) string {
	return weekdayNames[t.Weekday()]
}
