package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/derive"
	"github.com/mrossi/glowdesk/internal/message"
	"github.com/mrossi/glowdesk/internal/store"
)

type promotionsModel struct {
	store  *store.Store
	width  int
	height int

	promotions []store.Promotion
	cursor     int

	formActive bool
	form       *huh.Form
	editing    bool

	formName  *string
	formDesc  *string
	formStart *string
	formEnd   *string

	editingID string
}

func newPromotionsModel(s *store.Store) promotionsModel {
	name, desc, start, end := "", "", "", ""
	return promotionsModel{
		store:     s,
		formName:  &name,
		formDesc:  &desc,
		formStart: &start,
		formEnd:   &end,
	}
}

func (p *promotionsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type promotionsDataMsg struct {
	promotions []store.Promotion
}

func (p promotionsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return promotionsDataMsg{promotions: p.store.Promotions()}
	}
}

func (p promotionsModel) update(msg tea.Msg) (promotionsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case promotionsDataMsg:
		p.promotions = msg.promotions
		if p.cursor >= len(p.promotions) {
			p.cursor = max(0, len(p.promotions)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.promotions)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showForm(store.Promotion{}, false)
		case key.Matches(msg, keys.Edit):
			if p.cursor < len(p.promotions) {
				return p.showForm(p.promotions[p.cursor], true)
			}
		case key.Matches(msg, keys.Delete):
			if p.cursor < len(p.promotions) {
				id := p.promotions[p.cursor].ID
				return p, func() tea.Msg {
					if err := p.store.DeletePromotion(id); err != nil {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
					return clientsChangedMsg{}
				}
			}
		case key.Matches(msg, keys.WhatsApp):
			if p.cursor < len(p.promotions) {
				promo := p.promotions[p.cursor]
				text := message.PromotionMessage(promo.Name, promo.Description,
					formatDate(promo.StartDate), formatDate(promo.EndDate))
				return p, sendWhatsApp("", text)
			}
		}
	}
	return p, nil
}

func (p promotionsModel) showForm(promo store.Promotion, editing bool) (promotionsModel, tea.Cmd) {
	*p.formName = promo.Name
	*p.formDesc = promo.Description
	*p.formStart = promo.StartDate
	*p.formEnd = promo.EndDate
	if !editing {
		*p.formStart = today().Format("2006-01-02")
		*p.formEnd = today().Format("2006-01-02")
	}
	p.editing = editing
	p.editingID = promo.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(p.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewText().Title("Description").Value(p.formDesc).Lines(3),
			huh.NewInput().Title("Start (YYYY-MM-DD)").Value(p.formStart).
				Validate(validateRequiredDate),
			huh.NewInput().Title("End (YYYY-MM-DD)").Value(p.formEnd).
				Validate(validateRequiredDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func validateRequiredDate(s string) error {
	if _, ok := derive.ParseDate(strings.TrimSpace(s)); !ok {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (p promotionsModel) updateForm(msg tea.Msg) (promotionsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		name := strings.TrimSpace(*p.formName)
		desc := strings.TrimSpace(*p.formDesc)
		start := strings.TrimSpace(*p.formStart)
		end := strings.TrimSpace(*p.formEnd)

		if p.editing {
			patch := store.PromotionPatch{
				Name:        &name,
				Description: &desc,
				StartDate:   &start,
				EndDate:     &end,
			}
			id := p.editingID
			return p, func() tea.Msg {
				if _, err := p.store.UpdatePromotion(id, patch); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				return clientsChangedMsg{}
			}
		}

		promo := store.Promotion{Name: name, Description: desc, StartDate: start, EndDate: end}
		return p, func() tea.Msg {
			if _, err := p.store.AddPromotion(promo); err != nil {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
			return clientsChangedMsg{}
		}
	}

	return p, cmd
}

func (p promotionsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Promotion")
		if p.editing {
			title = titleStyle.Render("Edit Promotion")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	w := p.width - 4
	title := titleStyle.Render(fmt.Sprintf("Promotions (%d)", len(p.promotions)))

	if len(p.promotions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No promotions yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	now := today()
	for i, promo := range p.promotions {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		badge := successStyle.Render("active")
		if derive.IsPromotionExpired(promo, now) {
			badge = errorStyle.Render("expired")
		}
		period := mutedStyle.Render(formatDate(promo.StartDate) + " – " + formatDate(promo.EndDate))
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s", cursor, promo.Name))+" "+period+"  "+badge)
		if promo.Description != "" {
			rows = append(rows, mutedStyle.Render("    "+promo.Description))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  w: share"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
