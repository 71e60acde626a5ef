package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/message"
	"github.com/mrossi/glowdesk/internal/notify"
	"github.com/mrossi/glowdesk/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	birthdaysToday []store.Client
	upcoming       []derive.UpcomingBirthday
	running        []store.Promotion
	clientCount    int
	treatmentCount int
	inactiveCount  int

	cursor int // over today's birthdays
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.refresh()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	birthdaysToday []store.Client
	upcoming       []derive.UpcomingBirthday
	running        []store.Promotion
	clientCount    int
	treatmentCount int
	inactiveCount  int
}

func (d dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		now := today()
		clients := d.store.Clients()
		treatments := d.store.Treatments()

		upcoming := derive.UpcomingBirthdays(clients, now)
		if len(upcoming) > 10 {
			upcoming = upcoming[:10]
		}

		var running []store.Promotion
		for _, p := range d.store.Promotions() {
			if !derive.IsPromotionExpired(p, now) {
				running = append(running, p)
			}
		}

		return dashboardDataMsg{
			birthdaysToday: derive.BirthdaysToday(clients, now),
			upcoming:       upcoming,
			running:        running,
			clientCount:    len(clients),
			treatmentCount: len(treatments),
			inactiveCount:  len(derive.InactiveClients(clients, treatments, now)),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.birthdaysToday = msg.birthdaysToday
		d.upcoming = msg.upcoming
		d.running = msg.running
		d.clientCount = msg.clientCount
		d.treatmentCount = msg.treatmentCount
		d.inactiveCount = msg.inactiveCount
		if d.cursor >= len(d.birthdaysToday) {
			d.cursor = max(0, len(d.birthdaysToday)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.birthdaysToday)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.WhatsApp):
			if d.cursor < len(d.birthdaysToday) {
				c := d.birthdaysToday[d.cursor]
				return d, sendWhatsApp(c.Phone, message.BirthdayMessage(c.Name))
			}
		case key.Matches(msg, keys.Remind):
			return d, d.announceBirthdays()
		}
	}
	return d, nil
}

func (d dashboardModel) announceBirthdays() tea.Cmd {
	return func() tea.Msg {
		sound := d.store.Settings().Sounds
		n, err := notify.AnnounceBirthdays(notify.Desktop{}, d.store.Clients(), today(), sound)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Notification error: %v", err), isError: true}
		}
		if n == 0 {
			return statusMsg{text: "No birthdays today"}
		}
		return statusMsg{text: fmt.Sprintf("Sent %d birthday notifications", n)}
	}
}

func sendWhatsApp(phone, text string) tea.Cmd {
	return func() tea.Msg {
		if err := message.Open(message.WhatsAppURL(phone, text)); err != nil {
			return statusMsg{text: fmt.Sprintf("WhatsApp error: %v", err), isError: true}
		}
		return statusMsg{text: "WhatsApp opened"}
	}
}

func (d dashboardModel) view() string {
	w := d.width - 4

	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderCounter("Clients", d.clientCount, highlightStyle),
		"  ",
		d.renderCounter("Treatments", d.treatmentCount, successStyle),
		"  ",
		d.renderCounter("Inactive", d.inactiveCount, warningStyle),
	)

	var rows []string
	rows = append(rows, titleStyle.Render("Dashboard"))
	rows = append(rows, "")
	rows = append(rows, counters)
	rows = append(rows, "")
	rows = append(rows, d.renderBirthdaysToday())
	rows = append(rows, "")
	rows = append(rows, d.renderUpcoming())
	rows = append(rows, "")
	rows = append(rows, d.renderPromotions())
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  w: birthday message  r: desktop reminders"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderCounter(label string, n int, style lipgloss.Style) string {
	return fmt.Sprintf("%s %s", style.Render(fmt.Sprintf("%d", n)), mutedStyle.Render(label))
}

func (d dashboardModel) renderBirthdaysToday() string {
	if len(d.birthdaysToday) == 0 {
		return mutedStyle.Render("  No birthdays today")
	}
	var rows []string
	rows = append(rows, accentStyle.Render("🎉 Birthdays today"))
	for i, c := range d.birthdaysToday {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		age := ""
		if a, ok := derive.ClientAge(c, today()); ok {
			age = mutedStyle.Render(fmt.Sprintf("  turns %d", a))
		}
		rows = append(rows, style.Render(cursor+c.Name)+age)
	}
	return strings.Join(rows, "\n")
}

func (d dashboardModel) renderUpcoming() string {
	if len(d.upcoming) == 0 {
		return mutedStyle.Render("  No upcoming birthdays")
	}
	var rows []string
	rows = append(rows, titleStyle.Render("Upcoming birthdays"))
	for _, u := range d.upcoming {
		when := "today"
		if u.Days == 1 {
			when = "tomorrow"
		} else if u.Days > 1 {
			when = fmt.Sprintf("in %d days", u.Days)
		}
		rows = append(rows, fmt.Sprintf("  %-24s %s",
			u.Client.Name, mutedStyle.Render(u.Next.Format("02/01")+" · "+when)))
	}
	return strings.Join(rows, "\n")
}

func (d dashboardModel) renderPromotions() string {
	if len(d.running) == 0 {
		return mutedStyle.Render("  No running promotions")
	}
	var rows []string
	rows = append(rows, titleStyle.Render("Running promotions"))
	for _, p := range d.running {
		rows = append(rows, fmt.Sprintf("  %-24s %s",
			p.Name, mutedStyle.Render(formatDate(p.StartDate)+" – "+formatDate(p.EndDate))))
	}
	return strings.Join(rows, "\n")
}
