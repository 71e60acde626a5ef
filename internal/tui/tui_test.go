package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.OpenMemoryKV()
	if err != nil {
		t.Fatalf("open memory kv: %v", err)
	}
	s := store.New(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != viewCount {
		t.Fatalf("expected %d view names, got %d", viewCount, len(viewNames))
	}
	expected := []string{"Dashboard", "Clients", "Promotions", "Calendar", "Stats", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewClients != 1 || viewPromotions != 2 ||
		viewCalendar != 3 || viewStats != 4 || viewSettings != 5 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.backupPicking || app.importing {
		t.Fatal("no overlays should be active initially")
	}
	if app.isCapturing() {
		t.Fatal("no child view should capture input initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	s.Seed()
	app := NewApp(s)
	app.width = 120
	app.height = 40

	for v := viewState(0); v < viewCount; v++ {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	if got := app.View(); got != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", got)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40
	app.status = "backup saved"

	if !strings.Contains(app.renderFooter(), "backup saved") {
		t.Fatal("footer should show the status message")
	}
}

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(App)
	if app.activeView != viewPromotions {
		t.Fatalf("expected promotions view, got %d", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewCalendar {
		t.Fatalf("tab should advance to calendar, got %d", app.activeView)
	}
}

func TestAppBackupPickerOverlay(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	app = model.(App)
	if !app.backupPicking {
		t.Fatal("b should open the backup picker")
	}
	if !strings.Contains(app.View(), "Export backup") {
		t.Fatal("picker should list the export option")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.backupPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppImportPromptReplacesData(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120
	app.height = 40
	app.backupPicking = true
	app.backupCursor = 1

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if !app.importing {
		t.Fatal("selecting import should open the path prompt")
	}
	if !strings.Contains(app.View(), "replaces all current data") {
		t.Fatal("import prompt should warn about replacement")
	}
}

func TestAppThemeMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	model, _ := app.Update(themeChangedMsg{dark: true})
	app = model.(App)
	if app.status != "Theme updated" {
		t.Fatalf("unexpected status %q", app.status)
	}
	applyTheme(false)
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardRefresh(t *testing.T) {
	s := newTestStore(t)
	mmdd := time.Now().Format("01-02")
	s.AddClient(store.Client{Name: "Maria", Phone: "333", BirthDate: "1990-" + mmdd})
	s.AddClient(store.Client{Name: "Laura", Phone: "334"})

	d := newDashboardModel(s)
	msg := runCmd(t, d.refresh())
	data, ok := msg.(dashboardDataMsg)
	if !ok {
		t.Fatalf("unexpected msg %T", msg)
	}
	if data.clientCount != 2 {
		t.Fatalf("expected 2 clients, got %d", data.clientCount)
	}
	if len(data.birthdaysToday) != 1 || data.birthdaysToday[0].Name != "Maria" {
		t.Fatalf("unexpected birthdays: %+v", data.birthdaysToday)
	}

	d, _ = d.update(data)
	d.setSize(120, 40)
	if !strings.Contains(d.view(), "Maria") {
		t.Fatal("dashboard should show today's birthday")
	}
}

// ============================================================
// Clients model
// ============================================================

func TestClientsSearchFilters(t *testing.T) {
	s := newTestStore(t)
	s.AddClient(store.Client{Name: "Maria Rossi", Phone: "333"})
	s.AddClient(store.Client{Name: "Laura Bianchi", Phone: "334"})

	c := newClientsModel(s)
	c.query = "rossi"
	msg := runCmd(t, c.refresh())
	data := msg.(clientsDataMsg)
	if len(data.clients) != 1 || data.clients[0].Name != "Maria Rossi" {
		t.Fatalf("unexpected filtered clients: %+v", data.clients)
	}
}

func TestClientsSortModeCycles(t *testing.T) {
	s := newTestStore(t)
	c := newClientsModel(s)

	c, _ = c.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if c.sortMode != derive.SortBySurname {
		t.Fatalf("expected surname mode, got %v", c.sortMode)
	}
	c, _ = c.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	c, _ = c.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if c.sortMode != derive.SortByName {
		t.Fatalf("sort mode should wrap around, got %v", c.sortMode)
	}
}

func TestClientsCapturingDuringForm(t *testing.T) {
	s := newTestStore(t)
	c := newClientsModel(s)
	if c.capturing() {
		t.Fatal("fresh model should not capture")
	}

	c, _ = c.showClientForm(store.Client{}, false)
	if !c.capturing() {
		t.Fatal("open form should capture input")
	}

	c, _ = c.updateForm(tea.KeyMsg{Type: tea.KeyEsc})
	if c.capturing() {
		t.Fatal("esc should close the form")
	}
}

func TestClientsDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	cl, _ := s.AddClient(store.Client{Name: "Maria", Phone: "333"})
	s.AddTreatment(store.Treatment{Name: "Manicure", ClientID: cl.ID, Date: "2026-01-01"})

	c := newClientsModel(s)
	data := runCmd(t, c.refresh()).(clientsDataMsg)
	c, _ = c.update(data)

	msg := runCmd(t, c.deleteClient(cl.ID))
	if _, ok := msg.(clientsChangedMsg); !ok {
		t.Fatalf("unexpected msg %T", msg)
	}
	if len(s.Clients()) != 0 || len(s.Treatments()) != 0 {
		t.Fatal("delete should cascade to treatments")
	}
}

func TestClientsDetailShowsHistory(t *testing.T) {
	s := newTestStore(t)
	cl, _ := s.AddClient(store.Client{Name: "Maria Rossi", Phone: "333", BirthDate: "1990-06-15"})
	s.AddTreatment(store.Treatment{Name: "Manicure", ClientID: cl.ID, ClientName: cl.Name, Date: "2026-02-01"})

	c := newClientsModel(s)
	c.setSize(120, 40)
	detail := runCmd(t, c.refreshDetail(cl.ID)).(clientDetailMsg)
	c, _ = c.update(detail)
	c.viewingDetail = true

	out := c.view()
	if !strings.Contains(out, "Maria Rossi") || !strings.Contains(out, "Manicure") {
		t.Fatalf("detail view missing data:\n%s", out)
	}
}

// ============================================================
// Promotions model
// ============================================================

func TestPromotionsExpiredBadge(t *testing.T) {
	s := newTestStore(t)
	s.AddPromotion(store.Promotion{Name: "Vecchia", StartDate: "2020-01-01", EndDate: "2020-02-01"})

	p := newPromotionsModel(s)
	p.setSize(120, 40)
	data := runCmd(t, p.refresh()).(promotionsDataMsg)
	p, _ = p.update(data)

	if !strings.Contains(p.view(), "expired") {
		t.Fatal("past promotion should carry the expired badge")
	}
}

func TestPromotionsFormCapturesInput(t *testing.T) {
	s := newTestStore(t)
	p := newPromotionsModel(s)
	p, _ = p.showForm(store.Promotion{}, false)
	if !p.formActive {
		t.Fatal("form should be active")
	}
	p, _ = p.updateForm(tea.KeyMsg{Type: tea.KeyEsc})
	if p.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// Calendar model
// ============================================================

func TestCalendarNavigation(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s)
	start := c.selected

	c, _ = c.update(tea.KeyMsg{Type: tea.KeyRight})
	if !c.selected.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("right should advance a day: %v", c.selected)
	}
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyDown})
	if !c.selected.Equal(start.AddDate(0, 0, 8)) {
		t.Fatalf("down should advance a week: %v", c.selected)
	}
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if !sameCalendarDay(c.selected, time.Now()) {
		t.Fatalf("t should jump to today: %v", c.selected)
	}
}

func TestCalendarYearChangeTriggersRefresh(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s)
	c.selected = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c, cmd := c.update(tea.KeyMsg{Type: tea.KeyLeft})
	if c.selected.Year() != 2025 {
		t.Fatalf("expected year change, got %v", c.selected)
	}
	if cmd == nil {
		t.Fatal("crossing a year boundary should refresh events")
	}
}

func TestCalendarShowsDayEvents(t *testing.T) {
	s := newTestStore(t)
	cl, _ := s.AddClient(store.Client{Name: "Maria", Phone: "333"})
	s.AddTreatment(store.Treatment{Name: "Manicure", ClientID: cl.ID, ClientName: "Maria", Date: "2026-04-10"})

	c := newCalendarModel(s)
	c.setSize(120, 40)
	c.selected = time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	data := runCmd(t, c.refresh()).(calendarDataMsg)
	c, _ = c.update(data)

	if !strings.Contains(c.view(), "Manicure · Maria") {
		t.Fatal("selected day should list its events")
	}
}

// ============================================================
// Stats model
// ============================================================

func TestStatsRefresh(t *testing.T) {
	s := newTestStore(t)
	s.AddTreatmentType(store.TreatmentType{Name: "Manicure"})
	cl, _ := s.AddClient(store.Client{Name: "Maria", Phone: "333"})
	s.AddTreatment(store.Treatment{Name: "Manicure", ClientID: cl.ID, Date: "2020-01-01"})

	m := newStatsModel(s)
	m.setSize(120, 40)
	data := runCmd(t, m.refresh()).(statsDataMsg)
	m, _ = m.update(data)

	if len(m.popular) != 1 || m.popular[0].Name != "Manicure" {
		t.Fatalf("unexpected popularity: %+v", m.popular)
	}
	if len(m.inactive) != 1 {
		t.Fatalf("client with an old visit should be inactive: %+v", m.inactive)
	}
	if !strings.Contains(m.view(), "Inactive clients (1)") {
		t.Fatal("view should show the inactive count")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsShowsTypesAndPrefs(t *testing.T) {
	s := newTestStore(t)
	s.AddTreatmentType(store.TreatmentType{Name: "Manicure", DefaultDescription: "Base"})

	m := newSettingsModel(s)
	m.setSize(120, 40)
	data := runCmd(t, m.refresh()).(settingsDataMsg)
	m, _ = m.update(data)

	out := m.view()
	if !strings.Contains(out, "Manicure") || !strings.Contains(out, "Dark theme") {
		t.Fatalf("settings view missing data:\n%s", out)
	}
}

func TestSettingsSavePrefsEmitsThemeChange(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.showPrefsForm()
	*m.darkTheme = true
	*m.sounds = false

	msg := runCmd(t, m.savePrefs())
	tc, ok := msg.(themeChangedMsg)
	if !ok || !tc.dark {
		t.Fatalf("unexpected msg %T %+v", msg, msg)
	}
	got := s.Settings()
	if !got.DarkTheme || got.Sounds {
		t.Fatalf("settings not persisted: %+v", got)
	}
}

func TestSettingsCapturing(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	if m.capturing() {
		t.Fatal("fresh model should not capture")
	}
	m, _ = m.showTypeForm(store.TreatmentType{}, false)
	if !m.capturing() {
		t.Fatal("open form should capture")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2026-06-15", "15/06/2026"},
		{"2026-06-15T09:30:00Z", "15/06/2026"},
		{"garbage", "garbage"},
	}
	for _, c := range cases {
		if got := formatDate(c.in); got != c.want {
			t.Errorf("formatDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := formatDateTime("2026-06-15T09:30:00Z"); got != "15/06/2026 09:30" {
		t.Fatalf("unexpected %q", got)
	}
	if got := formatDateTime("2026-06-15"); got != "15/06/2026" {
		t.Fatalf("midnight should render date-only, got %q", got)
	}
}

// ============================================================
// Key bindings and styles
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

func TestApplyThemeRebuildsStyles(t *testing.T) {
	applyTheme(true)
	darkPrimary := colorPrimary
	applyTheme(false)
	if colorPrimary == darkPrimary {
		t.Fatal("palettes should differ")
	}

	for _, s := range []string{
		activeTabStyle.Render("x"),
		panelStyle.Render("x"),
		titleStyle.Render("x"),
		mutedStyle.Render("x"),
		selectedItemStyle.Render("x"),
		todayCellStyle.Render("x"),
	} {
		if s == "" {
			t.Fatal("style rendered empty")
		}
	}
}
