package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

type StatusModel struct {
	svc *invoice.Service

	uuidInput textinput.Model
	spinner   spinner.Model

	loading bool
	uuid    string
	resp    *invoice.PACResponse
	err     error
}

func NewStatusModel(svc *invoice.Service) StatusModel {
	ti := textinput.New()
	ti.Placeholder = "UUID"
	ti.Width = 40
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		svc:       svc,
		uuidInput: ti,
		spinner:   s,
	}
}

func (m StatusModel) Title() string { return "PAC Status Lookup" }

func (m StatusModel) ShortHelp() string {
	return "Esc: back | Enter: look up"
}

func (m StatusModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			m.uuid = strings.TrimSpace(m.uuidInput.Value())
			if m.uuid == "" {
				return m, nil
			}

			m.loading = true
			m.resp, m.err = nil, nil
			return m, tea.Batch(m.spinner.Tick, m.lookupCmd(m.uuid))
		}

	case statusResultMsg:
		m.loading = false
		m.resp, m.err = msg.resp, msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.uuidInput, cmd = m.uuidInput.Update(msg)

	return m, cmd
}

type statusResultMsg struct {
	resp *invoice.PACResponse
	err  error
}

func (m StatusModel) lookupCmd(uuid string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := CallCtx()
		defer cancel()

		resp, err := m.svc.PACStatus(ctx, uuid)
		return statusResultMsg{resp: resp, err: err}
	}
}

func (m StatusModel) View() string {
	var result string

	switch {
	case m.loading:
		result = fmt.Sprintf("%s Asking the PAC about %s...", m.spinner.View(), m.uuid)
	case m.err != nil:
		result = errStyle.Render(describe(m.err))
	case m.resp != nil:
		result = fmt.Sprintf(
			"UUID:    %s\nStatus:  %s\nReceipt: %s\nMessage: %s",
			m.uuid,
			statusStyle(m.resp.Status).Render(m.resp.Status),
			orDash(m.resp.ReceiptID),
			orDash(m.resp.Message),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
			titleStyle.Render(m.Title()), m.uuidInput.View(), result, helpStyle.Render(m.ShortHelp())),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
