package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/backup"
	"github.com/mrossi/glowdesk/internal/store"
)

// backupContext goes into exported filenames: backup_<context>_<date>.json.
const backupContext = "centro_estetico"

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView viewState
	showHelp   bool

	backupPicking bool
	backupCursor  int
	importing     bool
	importInput   textinput.Model

	dashboard  dashboardModel
	clients    clientsModel
	promotions promotionsModel
	calendar   calendarModel
	stats      statsModel
	settings   settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	applyTheme(s.Settings().DarkTheme)

	ti := textinput.New()
	ti.Placeholder = "path to backup file"
	ti.CharLimit = 512

	return App{
		store:       s,
		activeView:  viewDashboard,
		dashboard:   newDashboardModel(s),
		clients:     newClientsModel(s),
		promotions:  newPromotionsModel(s),
		calendar:    newCalendarModel(s),
		stats:       newStatsModel(s),
		settings:    newSettingsModel(s),
		help:        h,
		importInput: ti,
	}
}

func (a App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.clients.setSize(a.width, contentHeight)
		a.promotions.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.importing {
			return a.updateImportPrompt(msg)
		}
		if a.backupPicking {
			return a.updateBackupPicker(msg)
		}

		// If a child view is capturing input (form or search), delegate first.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Backup):
			a.backupPicking = true
			a.backupCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewClients
			return a, a.clients.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPromotions
			return a, a.promotions.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewCount
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		return a, nil

	case themeChangedMsg:
		applyTheme(msg.dark)
		a.status = "Theme updated"
		return a, nil

	case clientsChangedMsg:
		// A mutation elsewhere (cascade delete, rename propagation) may
		// invalidate what other views show; refresh the active one.
		return a, a.refreshCurrentView()

	case backupDoneMsg:
		a.status = "Backup exported to " + msg.path
		return a, nil

	case importDoneMsg:
		a.status = fmt.Sprintf("Backup imported (%d clients)", msg.clients)
		return a, a.refreshCurrentView()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewClients:
		a.clients, cmd = a.clients.update(msg)
	case viewPromotions:
		a.promotions, cmd = a.promotions.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewClients:
		return a.clients.capturing()
	case viewPromotions:
		return a.promotions.formActive
	case viewSettings:
		return a.settings.capturing()
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.refresh()
	case viewClients:
		return a.clients.refresh()
	case viewPromotions:
		return a.promotions.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewClients:
		content = a.clients.view()
	case viewPromotions:
		content = a.promotions.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.importing {
		content = a.renderImportPrompt()
	} else if a.backupPicking {
		content = a.renderBackupPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("glowdesk")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// --- Backup picker overlay ---

var backupOptions = []string{"Export backup", "Import backup"}

func (a App) renderBackupPicker() string {
	title := titleStyle.Render("Backup")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, opt := range backupOptions {
		cursor := "  "
		style := normalItemStyle
		if i == a.backupCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+opt))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateBackupPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.backupCursor > 0 {
			a.backupCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.backupCursor < len(backupOptions)-1 {
			a.backupCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.backupPicking = false
		if a.backupCursor == 0 {
			return a, a.doExport()
		}
		a.importing = true
		a.importInput.SetValue("")
		a.importInput.Focus()
		return a, textinput.Blink
	case key.Matches(msg, keys.Back):
		a.backupPicking = false
	}
	return a, nil
}

func (a App) doExport() tea.Cmd {
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := filepath.Join(home, backup.Filename(backupContext, time.Now()))
		if err := backup.Export(a.store.Snapshot(), path, time.Now()); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return backupDoneMsg{path: path}
	}
}

// --- Import prompt overlay ---

func (a App) renderImportPrompt() string {
	title := titleStyle.Render("Import Backup")
	warn := warningStyle.Render("Importing replaces all current data.")
	rows := []string{
		title,
		"",
		warn,
		"",
		a.importInput.View(),
		"",
		mutedStyle.Render("  enter: import  esc: cancel"),
	}
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateImportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.importing = false
		a.importInput.Blur()
		return a, nil
	case "enter":
		path := strings.TrimSpace(a.importInput.Value())
		a.importing = false
		a.importInput.Blur()
		if path == "" {
			return a, nil
		}
		return a, a.doImport(path)
	}

	var cmd tea.Cmd
	a.importInput, cmd = a.importInput.Update(msg)
	return a, cmd
}

func (a App) doImport(path string) tea.Cmd {
	return func() tea.Msg {
		snap, err := backup.Import(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		if err := a.store.ImportAll(snap); err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{clients: len(snap.Clients)}
	}
}
