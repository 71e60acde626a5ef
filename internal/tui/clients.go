package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/message"
	"github.com/mrossi/glowdesk/internal/store"
)

type clientsModel struct {
	store  *store.Store
	width  int
	height int

	clients       []store.Client
	treatments    []store.Treatment
	cursor        int
	sortMode      derive.SortMode
	query         string
	searchInput   textinput.Model
	searching     bool
	viewingDetail bool // true = showing the selected client's card + history

	detailClient     store.Client
	detailTreatments []store.Treatment
	detailCursor     int

	formActive bool
	form       *huh.Form
	formType   string // "client", "edit_client", "treatment"

	// Form field pointers (survive value copies)
	formName      *string
	formPhone     *string
	formEmail     *string
	formBirthDate *string
	formAddress   *string
	formSelfCare  *string
	formTypeName  *string
	formDesc      *string
	formDate      *string

	editingID string
}

func newClientsModel(s *store.Store) clientsModel {
	si := textinput.New()
	si.Placeholder = "name, email or phone"
	si.CharLimit = 64

	name, phone, email, birth, addr, care := "", "", "", "", "", ""
	typeName, desc, date := "", "", ""
	return clientsModel{
		store:         s,
		searchInput:   si,
		formName:      &name,
		formPhone:     &phone,
		formEmail:     &email,
		formBirthDate: &birth,
		formAddress:   &addr,
		formSelfCare:  &care,
		formTypeName:  &typeName,
		formDesc:      &desc,
		formDate:      &date,
	}
}

func (c *clientsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c clientsModel) capturing() bool {
	return c.formActive || c.searching
}

type clientsDataMsg struct {
	clients    []store.Client
	treatments []store.Treatment
}

type clientDetailMsg struct {
	client     store.Client
	treatments []store.Treatment
}

func (c clientsModel) refresh() tea.Cmd {
	mode, query := c.sortMode, c.query
	return func() tea.Msg {
		clients := c.store.Clients()
		treatments := c.store.Treatments()
		if query != "" {
			clients = derive.SearchClients(clients, query)
		}
		clients = derive.SortClients(clients, treatments, mode)
		return clientsDataMsg{clients: clients, treatments: treatments}
	}
}

func (c clientsModel) refreshDetail(id string) tea.Cmd {
	return func() tea.Msg {
		client, err := c.store.GetClient(id)
		if err != nil {
			return statusMsg{text: "Client not found", isError: true}
		}
		return clientDetailMsg{client: client, treatments: c.store.TreatmentsForClient(id)}
	}
}

func (c clientsModel) update(msg tea.Msg) (clientsModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case clientsDataMsg:
		c.clients = msg.clients
		c.treatments = msg.treatments
		if c.cursor >= len(c.clients) {
			c.cursor = max(0, len(c.clients)-1)
		}
		return c, nil

	case clientDetailMsg:
		c.detailClient = msg.client
		c.detailTreatments = msg.treatments
		if c.detailCursor >= len(c.detailTreatments) {
			c.detailCursor = max(0, len(c.detailTreatments)-1)
		}
		return c, nil

	case tea.KeyMsg:
		if c.searching {
			return c.updateSearch(msg)
		}
		if c.viewingDetail {
			return c.updateDetail(msg)
		}
		return c.updateList(msg)
	}
	return c, nil
}

func (c clientsModel) updateSearch(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.searching = false
		c.searchInput.Blur()
		c.query = ""
		c.searchInput.SetValue("")
		return c, c.refresh()
	case "enter":
		c.searching = false
		c.searchInput.Blur()
		return c, nil
	}

	var cmd tea.Cmd
	c.searchInput, cmd = c.searchInput.Update(msg)
	c.query = strings.TrimSpace(c.searchInput.Value())
	return c, tea.Batch(cmd, c.refresh())
}

func (c clientsModel) updateList(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, keys.Down):
		if c.cursor < len(c.clients)-1 {
			c.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if c.cursor < len(c.clients) {
			c.viewingDetail = true
			c.detailCursor = 0
			return c, c.refreshDetail(c.clients[c.cursor].ID)
		}
	case key.Matches(msg, keys.Search):
		c.searching = true
		c.searchInput.SetValue(c.query)
		c.searchInput.Focus()
		return c, textinput.Blink
	case key.Matches(msg, keys.Sort):
		c.sortMode = (c.sortMode + 1) % 3
		return c, c.refresh()
	case key.Matches(msg, keys.New):
		return c.showClientForm(store.Client{}, false)
	case key.Matches(msg, keys.Edit):
		if c.cursor < len(c.clients) {
			return c.showClientForm(c.clients[c.cursor], true)
		}
	case key.Matches(msg, keys.Delete):
		if c.cursor < len(c.clients) {
			id := c.clients[c.cursor].ID
			return c, c.deleteClient(id)
		}
	case key.Matches(msg, keys.WhatsApp):
		if c.cursor < len(c.clients) {
			cl := c.clients[c.cursor]
			return c, sendWhatsApp(cl.Phone, message.WinBackMessage(cl.Name))
		}
	}
	return c, nil
}

func (c clientsModel) updateDetail(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		c.viewingDetail = false
		return c, c.refresh()
	case key.Matches(msg, keys.Up):
		if c.detailCursor > 0 {
			c.detailCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.detailCursor < len(c.detailTreatments)-1 {
			c.detailCursor++
		}
	case key.Matches(msg, keys.New):
		return c.showTreatmentForm()
	case key.Matches(msg, keys.Delete):
		if c.detailCursor < len(c.detailTreatments) {
			id := c.detailTreatments[c.detailCursor].ID
			clientID := c.detailClient.ID
			return c, func() tea.Msg {
				if err := c.store.DeleteTreatment(id); err != nil {
					return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
				}
				return clientDetailRefresh(c, clientID)
			}
		}
	case key.Matches(msg, keys.Edit):
		return c.showClientForm(c.detailClient, true)
	case key.Matches(msg, keys.WhatsApp):
		cl := c.detailClient
		return c, sendWhatsApp(cl.Phone, message.WinBackMessage(cl.Name))
	}
	return c, nil
}

func clientDetailRefresh(c clientsModel, clientID string) tea.Msg {
	client, err := c.store.GetClient(clientID)
	if err != nil {
		return statusMsg{text: "Client not found", isError: true}
	}
	return clientDetailMsg{client: client, treatments: c.store.TreatmentsForClient(clientID)}
}

func (c clientsModel) deleteClient(id string) tea.Cmd {
	return func() tea.Msg {
		if err := c.store.DeleteClient(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
		}
		return clientsChangedMsg{}
	}
}

func (c clientsModel) showClientForm(cl store.Client, editing bool) (clientsModel, tea.Cmd) {
	*c.formName = cl.Name
	*c.formPhone = cl.Phone
	*c.formEmail = cl.Email
	*c.formBirthDate = cl.BirthDate
	*c.formAddress = cl.Address
	*c.formSelfCare = cl.SelfCare
	if editing {
		c.formType = "edit_client"
		c.editingID = cl.ID
	} else {
		c.formType = "client"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(c.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("Phone").Value(c.formPhone).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("phone is required")
					}
					return nil
				}),
			huh.NewInput().Title("Email").Value(c.formEmail),
			huh.NewInput().Title("Birth date (YYYY-MM-DD)").Value(c.formBirthDate).
				Validate(validateOptionalDate),
			huh.NewInput().Title("Address").Value(c.formAddress),
			huh.NewText().Title("Self-care notes").Value(c.formSelfCare).Lines(3),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c clientsModel) showTreatmentForm() (clientsModel, tea.Cmd) {
	types := c.store.TreatmentTypes()
	if len(types) == 0 {
		return c, func() tea.Msg {
			return statusMsg{text: "No treatment types configured (see Settings)", isError: true}
		}
	}

	*c.formTypeName = types[0].Name
	*c.formDesc = ""
	*c.formDate = today().Format("2006-01-02")
	c.formType = "treatment"

	typeOptions := make([]huh.Option[string], len(types))
	for i, t := range types {
		typeOptions[i] = huh.NewOption(t.Name, t.Name)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Treatment").Options(typeOptions...).Value(c.formTypeName),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(c.formDate).
				Validate(func(s string) error {
					if _, ok := derive.ParseDate(strings.TrimSpace(s)); !ok {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewText().Title("Description").Value(c.formDesc).Lines(3).
				Description("Leave empty to use the type's default description"),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := derive.ParseDate(s); !ok {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (c clientsModel) updateForm(msg tea.Msg) (clientsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		switch c.formType {
		case "client":
			cl := store.Client{
				Name:      strings.TrimSpace(*c.formName),
				Phone:     strings.TrimSpace(*c.formPhone),
				Email:     strings.TrimSpace(*c.formEmail),
				BirthDate: strings.TrimSpace(*c.formBirthDate),
				Address:   strings.TrimSpace(*c.formAddress),
				SelfCare:  strings.TrimSpace(*c.formSelfCare),
			}
			return c, func() tea.Msg {
				if _, err := c.store.AddClient(cl); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				return clientsChangedMsg{}
			}
		case "edit_client":
			name := strings.TrimSpace(*c.formName)
			phone := strings.TrimSpace(*c.formPhone)
			email := strings.TrimSpace(*c.formEmail)
			birth := strings.TrimSpace(*c.formBirthDate)
			addr := strings.TrimSpace(*c.formAddress)
			care := strings.TrimSpace(*c.formSelfCare)
			patch := store.ClientPatch{
				Name:      &name,
				Phone:     &phone,
				Email:     &email,
				BirthDate: &birth,
				Address:   &addr,
				SelfCare:  &care,
			}
			id := c.editingID
			inDetail := c.viewingDetail
			return c, func() tea.Msg {
				if _, err := c.store.UpdateClient(id, patch); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				if inDetail {
					return clientDetailRefresh(c, id)
				}
				return clientsChangedMsg{}
			}
		case "treatment":
			desc := strings.TrimSpace(*c.formDesc)
			if desc == "" {
				for _, tt := range c.store.TreatmentTypes() {
					if tt.Name == *c.formTypeName {
						desc = tt.DefaultDescription
						break
					}
				}
			}
			t := store.Treatment{
				Name:        *c.formTypeName,
				Description: desc,
				Date:        strings.TrimSpace(*c.formDate),
				ClientID:    c.detailClient.ID,
				ClientName:  c.detailClient.Name,
			}
			clientID := c.detailClient.ID
			return c, func() tea.Msg {
				if _, err := c.store.AddTreatment(t); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				return clientDetailRefresh(c, clientID)
			}
		}
	}

	return c, cmd
}

func (c clientsModel) view() string {
	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Client")
		switch c.formType {
		case "edit_client":
			title = titleStyle.Render("Edit Client")
		case "treatment":
			title = titleStyle.Render("New Treatment — " + c.detailClient.Name)
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(c.width - 4).Render(content)
	}

	if c.viewingDetail {
		return c.renderDetail()
	}
	return c.renderList()
}

func (c clientsModel) renderList() string {
	w := c.width - 4
	title := titleStyle.Render(fmt.Sprintf("Clients (%d)", len(c.clients)))
	sortLabel := mutedStyle.Render("sort: " + c.sortMode.String())

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", sortLabel))
	rows = append(rows, "")

	if c.searching || c.query != "" {
		rows = append(rows, "  "+c.searchInput.View())
		rows = append(rows, "")
	}

	if len(c.clients) == 0 {
		empty := "No clients yet. Press n to add one."
		if c.query != "" {
			empty = "No clients match the search."
		}
		rows = append(rows, mutedStyle.Render("  "+empty))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	header := mutedStyle.Render(fmt.Sprintf("  %-26s %-16s %-12s", "Name", "Phone", "Birthday"))
	rows = append(rows, header)

	visible := c.height - 12
	if visible < 5 {
		visible = 5
	}
	start := 0
	if c.cursor >= visible {
		start = c.cursor - visible + 1
	}
	end := min(start+visible, len(c.clients))

	for i := start; i < end; i++ {
		cl := c.clients[i]
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		birthday := ""
		if cl.BirthDate != "" {
			birthday = formatDate(cl.BirthDate)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s %-16s %-12s", cursor, cl.Name, cl.Phone, birthday)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  /: search  s: sort  w: message  enter: detail"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c clientsModel) renderDetail() string {
	w := c.width - 4
	cl := c.detailClient

	var rows []string
	rows = append(rows, titleStyle.Render(cl.Name))
	rows = append(rows, "")

	if cl.Phone != "" {
		rows = append(rows, "  "+mutedStyle.Render("Phone    ")+cl.Phone)
	}
	if cl.Email != "" {
		rows = append(rows, "  "+mutedStyle.Render("Email    ")+cl.Email)
	}
	if cl.BirthDate != "" {
		line := "  " + mutedStyle.Render("Birthday ") + formatDate(cl.BirthDate)
		if age, ok := derive.ClientAge(cl, today()); ok {
			line += mutedStyle.Render(fmt.Sprintf("  (%d)", age))
		}
		rows = append(rows, line)
	}
	if cl.Address != "" {
		rows = append(rows, "  "+mutedStyle.Render("Address  ")+cl.Address)
	}
	if cl.SelfCare != "" {
		rows = append(rows, "  "+mutedStyle.Render("Self-care ")+cl.SelfCare)
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Treatments (%d)", len(c.detailTreatments))))

	if len(c.detailTreatments) == 0 {
		rows = append(rows, mutedStyle.Render("  No treatments yet. Press n to record one."))
	} else {
		for i, t := range c.detailTreatments {
			cursor := "  "
			style := normalItemStyle
			if i == c.detailCursor {
				cursor = "> "
				style = selectedItemStyle
			}
			desc := ""
			if t.Description != "" {
				desc = mutedStyle.Render("  " + t.Description)
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %-24s", cursor, formatDate(t.Date), t.Name))+desc)
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new treatment  d: delete treatment  e: edit client  w: message  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
