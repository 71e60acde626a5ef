package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/message"
	"github.com/mrossi/glowdesk/internal/store"
)

var chartColors = []string{"#D478B8", "#7AA2F7", "#2ECC71", "#F39C12", "#FF6B6B"}

type statsModel struct {
	store  *store.Store
	width  int
	height int

	popular        []derive.TreatmentCount
	perClient      float64
	clientCount    int
	treatmentCount int

	inactive  []store.Client
	types     []store.TreatmentType
	typeIdx   int
	byType    []store.Client
	cursor    int // over the global inactive list
	chart     barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(50, 10),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	popular        []derive.TreatmentCount
	perClient      float64
	clientCount    int
	treatmentCount int
	inactive       []store.Client
	types          []store.TreatmentType
	byType         []store.Client
}

func (s statsModel) refresh() tea.Cmd {
	typeIdx := s.typeIdx
	return func() tea.Msg {
		now := today()
		clients := s.store.Clients()
		treatments := s.store.Treatments()
		types := s.store.TreatmentTypes()

		var byType []store.Client
		if typeIdx < len(types) {
			byType = derive.InactiveClientsByType(clients, treatments, types[typeIdx], now)
		}

		return statsDataMsg{
			popular:        derive.PopularTreatments(treatments, 5),
			perClient:      derive.TreatmentsPerClient(treatments, clients),
			clientCount:    len(clients),
			treatmentCount: len(treatments),
			inactive:       derive.InactiveClients(clients, treatments, now),
			types:          types,
			byType:         byType,
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.popular = msg.popular
		s.perClient = msg.perClient
		s.clientCount = msg.clientCount
		s.treatmentCount = msg.treatmentCount
		s.inactive = msg.inactive
		s.types = msg.types
		s.byType = msg.byType
		if s.typeIdx >= len(s.types) {
			s.typeIdx = max(0, len(s.types)-1)
		}
		if s.cursor >= len(s.inactive) {
			s.cursor = max(0, len(s.inactive)-1)
		}
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.inactive)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Left):
			if s.typeIdx > 0 {
				s.typeIdx--
				return s, s.refresh()
			}
		case key.Matches(msg, keys.Right):
			if s.typeIdx < len(s.types)-1 {
				s.typeIdx++
				return s, s.refresh()
			}
		case key.Matches(msg, keys.WhatsApp):
			if s.cursor < len(s.inactive) {
				cl := s.inactive[s.cursor]
				return s, sendWhatsApp(cl.Phone, message.WinBackMessage(cl.Name))
			}
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	s.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for i, tc := range s.popular {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(chartColors[i%len(chartColors)]))
		label := tc.Name
		if len(label) > 12 {
			label = label[:12]
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: tc.Name, Value: float64(tc.Count), Style: style},
			},
		})
	}
	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d clients · %d treatments · %.1f per client",
			s.clientCount, s.treatmentCount, s.perClient)),
	)

	var chartView string
	if len(s.popular) == 0 {
		chartView = mutedStyle.Render("  No treatments recorded yet")
	} else {
		chartView = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Most requested"), s.chart.View(), s.renderLegend())
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			chartView, "",
			s.renderInactive(), "",
			s.renderByType(), "",
			mutedStyle.Render("  ↑/↓: inactive list  ←/→: type  w: win-back message"),
		),
	)
}

func (s statsModel) renderLegend() string {
	var items []string
	for i, tc := range s.popular {
		dot := lipgloss.NewStyle().
			Foreground(lipgloss.Color(chartColors[i%len(chartColors)])).
			Render("●")
		items = append(items, fmt.Sprintf("%s %s (%d)", dot, tc.Name, tc.Count))
	}
	return "  " + strings.Join(items, "  ")
}

func (s statsModel) renderInactive() string {
	title := titleStyle.Render(fmt.Sprintf("Inactive clients (%d)", len(s.inactive)))
	if len(s.inactive) == 0 {
		return title + "\n" + successStyle.Render("  Everyone has visited in the last month")
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("  No visit in over a month"))
	for i, cl := range s.inactive {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s", cursor, cl.Name))+mutedStyle.Render(cl.Phone))
	}
	return strings.Join(rows, "\n")
}

func (s statsModel) renderByType() string {
	if len(s.types) == 0 {
		return mutedStyle.Render("  No treatment types configured")
	}

	t := s.types[s.typeIdx]
	selector := fmt.Sprintf("← %s →", t.Name)
	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Due for a follow-up"), "  ", highlightStyle.Render(selector))

	if len(s.byType) == 0 {
		return title + "\n" + mutedStyle.Render("  Nobody is overdue for "+t.Name)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("  Had this treatment, none in the last 30 days"))
	for _, cl := range s.byType {
		rows = append(rows, normalItemStyle.Render("  "+cl.Name))
	}
	return strings.Join(rows, "\n")
}
