// Package derive holds the pure read-side computations over store
// collections: birthday windows, inactivity detection, calendar events,
// popularity, sorting. Nothing here touches persistence; every function takes
// an explicit "now" where time matters.
package derive

import "time"

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses the ISO-8601 strings the store carries: full timestamps
// (with optional fractional seconds) or bare dates.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
