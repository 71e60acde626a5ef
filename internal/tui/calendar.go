package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/store"
)

type calendarModel struct {
	store  *store.Store
	width  int
	height int

	selected time.Time
	events   map[string][]derive.Event
}

func newCalendarModel(s *store.Store) calendarModel {
	now := today()
	return calendarModel{
		store:    s,
		selected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	year   int
	events map[string][]derive.Event
}

func (c calendarModel) refresh() tea.Cmd {
	year := c.selected.Year()
	return func() tea.Msg {
		events := derive.YearEvents(year,
			c.store.Treatments(), c.store.Promotions(), c.store.Clients())
		return calendarDataMsg{year: year, events: events}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		if msg.year == c.selected.Year() {
			c.events = msg.events
		}
		return c, nil

	case tea.KeyMsg:
		prevYear := c.selected.Year()
		switch {
		case key.Matches(msg, keys.Left):
			c.selected = c.selected.AddDate(0, 0, -1)
		case key.Matches(msg, keys.Right):
			c.selected = c.selected.AddDate(0, 0, 1)
		case key.Matches(msg, keys.Up):
			c.selected = c.selected.AddDate(0, 0, -7)
		case key.Matches(msg, keys.Down):
			c.selected = c.selected.AddDate(0, 0, 7)
		case key.Matches(msg, keys.Today):
			now := today()
			c.selected = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		default:
			return c, nil
		}
		if c.selected.Year() != prevYear {
			return c, c.refresh()
		}
		return c, nil
	}
	return c, nil
}

func (c calendarModel) view() string {
	w := c.width - 4

	grid := c.renderMonth()
	events := c.renderDayEvents()
	nav := mutedStyle.Render("  ←/→: day  ↑/↓: week  t: today")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Calendar"), "", grid, "", events, "", nav,
		),
	)
}

// renderMonth draws the selected day's month as a Monday-first grid, with a
// dot under days that carry events.
func (c calendarModel) renderMonth() string {
	first := time.Date(c.selected.Year(), c.selected.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	daysInMonth := int(next.Sub(first).Hours() / 24)

	lead := int(first.Weekday()) // Sunday = 0
	lead = (lead + 6) % 7        // Monday-first

	var rows []string
	rows = append(rows, titleStyle.Render("  "+first.Format("January 2006")))
	rows = append(rows, mutedStyle.Render("   Mo   Tu   We   Th   Fr   Sa   Su"))

	now := today()
	var line strings.Builder
	line.WriteString(strings.Repeat("     ", lead))

	col := lead
	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
		cell := fmt.Sprintf("%3d", day)

		marker := " "
		if len(c.events[d.Format(derive.DayKey)]) > 0 {
			marker = accentStyle.Render("•")
		}

		switch {
		case sameCalendarDay(d, c.selected):
			cell = selectedCellStyle.Render(cell)
		case sameCalendarDay(d, now):
			cell = todayCellStyle.Render(cell)
		default:
			cell = normalItemStyle.Render(cell)
		}

		line.WriteString(" " + cell + marker)
		col++
		if col == 7 {
			rows = append(rows, line.String())
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		rows = append(rows, line.String())
	}

	return strings.Join(rows, "\n")
}

func (c calendarModel) renderDayEvents() string {
	key := c.selected.Format(derive.DayKey)
	events := c.events[key]

	var rows []string
	rows = append(rows, titleStyle.Render(c.selected.Format("Monday 02 January")))

	if len(events) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing scheduled"))
		return strings.Join(rows, "\n")
	}

	for _, e := range events {
		rows = append(rows, "  "+eventIcon(e.Kind)+" "+normalItemStyle.Render(e.Title))
	}
	return strings.Join(rows, "\n")
}

func eventIcon(k derive.EventKind) string {
	switch k {
	case derive.EventTreatment:
		return highlightStyle.Render("✦")
	case derive.EventPromotion:
		return warningStyle.Render("%")
	case derive.EventBirthday:
		return accentStyle.Render("🎂")
	}
	return " "
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
