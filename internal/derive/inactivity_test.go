package derive

import (
	"testing"
	"time"

	"github.com/mrossi/glowdesk/internal/store"
)

func TestInactiveClients(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	clients := []store.Client{
		{ID: "recent", Name: "Recent"},
		{ID: "boundary", Name: "Boundary"},
		{ID: "old", Name: "Old"},
		{ID: "never", Name: "Never"},
	}
	treatments := []store.Treatment{
		{ClientID: "recent", Date: "2026-03-01"},
		{ClientID: "boundary", Date: "2026-02-15"}, // exactly one calendar month
		{ClientID: "old", Date: "2025-12-20"},
		{ClientID: "old", Date: "2026-01-05"}, // most recent visit counts
	}

	got := InactiveClients(clients, treatments, now)
	ids := make(map[string]bool)
	for _, c := range got {
		ids[c.ID] = true
	}

	if ids["recent"] {
		t.Error("client with a recent visit must not be inactive")
	}
	if !ids["boundary"] {
		t.Error("a visit exactly one month old counts as inactive")
	}
	if !ids["old"] || !ids["never"] {
		t.Errorf("expected old and never inactive, got %+v", got)
	}
}

func TestInactiveClientsIgnoresUnparseableDates(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	clients := []store.Client{{ID: "a"}}
	treatments := []store.Treatment{{ClientID: "a", Date: "???"}}

	// A treatment with a bad date still means the client visited, but with no
	// usable timestamp the client counts as inactive.
	if got := InactiveClients(clients, treatments, now); len(got) != 1 {
		t.Fatalf("expected inactive, got %+v", got)
	}
}

func TestInactiveClientsByType(t *testing.T) {
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	manicure := store.TreatmentType{Name: "Manicure"}
	clients := []store.Client{
		{ID: "due", Name: "Due"},
		{ID: "fresh", Name: "Fresh"},
		{ID: "other", Name: "Other"},
		{ID: "edge", Name: "Edge"},
	}
	treatments := []store.Treatment{
		{ClientID: "due", Name: "manicure", Date: "2026-01-10"}, // matched case-insensitively
		{ClientID: "fresh", Name: "Manicure", Date: "2026-03-20"},
		{ClientID: "other", Name: "Pedicure", Date: "2026-01-10"},
		{ClientID: "edge", Name: "Manicure", Date: "2026-03-01"}, // exactly 30 days ago
	}

	got := InactiveClientsByType(clients, treatments, manicure, now)
	ids := make(map[string]bool)
	for _, c := range got {
		ids[c.ID] = true
	}

	if !ids["due"] {
		t.Error("client overdue for the type should be listed")
	}
	if ids["fresh"] {
		t.Error("client inside the 30-day window must not be listed")
	}
	if ids["other"] {
		t.Error("clients who never had the type are excluded")
	}
	if ids["edge"] {
		t.Error("a visit exactly 30 days ago is still within the window")
	}
}

func TestInactiveClientsByTypeWindowIsFixed(t *testing.T) {
	// The per-type window is 30 days flat, not a calendar month: on March 31st
	// a March 2nd visit is within the window even though it is in the
	// previous calendar month.
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	typ := store.TreatmentType{Name: "Laminazione"}
	clients := []store.Client{{ID: "a"}}
	treatments := []store.Treatment{{ClientID: "a", Name: "Laminazione", Date: "2026-03-02"}}

	if got := InactiveClientsByType(clients, treatments, typ, now); len(got) != 0 {
		t.Fatalf("expected active, got %+v", got)
	}
}
