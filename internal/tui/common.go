package tui

import (
	"time"

	"github.com/mrossi/glowdesk/internal/derive"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewClients
	viewPromotions
	viewCalendar
	viewStats
	viewSettings
)

var viewNames = []string{"Dashboard", "Clients", "Promotions", "Calendar", "Stats", "Settings"}

const viewCount = 6

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type themeChangedMsg struct {
	dark bool
}

type backupDoneMsg struct {
	path string
}

type importDoneMsg struct {
	clients int
}

type clientsChangedMsg struct{}

// --- Helpers ---

// formatDate renders a stored ISO date the way the salon reads it: dd/mm/yyyy.
func formatDate(iso string) string {
	d, ok := derive.ParseDate(iso)
	if !ok {
		return iso
	}
	return d.Format("02/01/2006")
}

func formatDateTime(iso string) string {
	d, ok := derive.ParseDate(iso)
	if !ok {
		return iso
	}
	if d.Hour() == 0 && d.Minute() == 0 {
		return d.Format("02/01/2006")
	}
	return d.Format("02/01/2006 15:04")
}

func today() time.Time {
	return time.Now()
}
