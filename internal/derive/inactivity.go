package derive

import (
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

// TypeInactivityWindow is the fixed trailing window used by the per-type
// check. The global check subtracts a calendar month instead; the two are
// deliberately different and must stay so.
const TypeInactivityWindow = 30 * 24 * time.Hour

// InactiveClients returns the clients with no treatments at all, or whose
// most recent treatment is at least one calendar month old.
func InactiveClients(clients []store.Client, treatments []store.Treatment, now time.Time) []store.Client {
	cutoff := now.AddDate(0, -1, 0)

	last := make(map[string]time.Time)
	has := make(map[string]bool)
	for _, t := range treatments {
		has[t.ClientID] = true
		if d, ok := ParseDate(t.Date); ok && d.After(last[t.ClientID]) {
			last[t.ClientID] = d
		}
	}

	var out []store.Client
	for _, c := range clients {
		if !has[c.ID] || !last[c.ID].After(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// InactiveClientsByType returns the clients who have had the given treatment
// type at least once (matched by normalized name against the denormalized
// treatment names) but not within the trailing 30-day window.
func InactiveClientsByType(clients []store.Client, treatments []store.Treatment, typ store.TreatmentType, now time.Time) []store.Client {
	norm := store.NormalizeName(typ.Name)

	hasAny := make(map[string]bool)
	active := make(map[string]bool)
	for _, t := range treatments {
		if store.NormalizeName(t.Name) != norm {
			continue
		}
		hasAny[t.ClientID] = true
		d, ok := ParseDate(t.Date)
		if !ok {
			continue
		}
		if now.Sub(d) <= TypeInactivityWindow {
			active[t.ClientID] = true
		}
	}

	var out []store.Client
	for _, c := range clients {
		if hasAny[c.ID] && !active[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
