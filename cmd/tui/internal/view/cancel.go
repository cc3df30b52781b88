package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

type cancelState int

const (
	cancelStateForm cancelState = iota
	cancelStateSubmitting
	cancelStateResult
)

// cancelFields lives on the heap so the form bindings survive model copies.
type cancelFields struct {
	UUID    string
	Motivo  string
	Usuario string
	Perfil  string
}

type CancelModel struct {
	svc *invoice.Service

	state   cancelState
	form    *huh.Form
	fields  *cancelFields
	spinner spinner.Model

	result *invoice.CancelResult
	err    error
}

func NewCancelModel(svc *invoice.Service) CancelModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fields := &cancelFields{Motivo: "02", Perfil: "FACTURACION"}

	return CancelModel{
		svc:     svc,
		fields:  fields,
		form:    buildCancelForm(fields),
		spinner: s,
	}
}

func (m CancelModel) Title() string { return "Request Cancellation" }

func (m CancelModel) ShortHelp() string {
	switch m.state {
	case cancelStateSubmitting:
		return "Waiting for the PAC..."
	case cancelStateResult:
		return "Esc: back | n: new request"
	}
	return "Esc: back | Enter: next field"
}

func (m CancelModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CancelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case cancelStateForm:
		return m.updateForm(msg)
	case cancelStateSubmitting:
		return m.updateSubmitting(msg)
	case cancelStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m CancelModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.state = cancelStateSubmitting
		m.result, m.err = nil, nil
		return m, tea.Batch(m.spinner.Tick, m.submitCmd())
	}

	return m, cmd
}

func (m CancelModel) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(cancelResultMsg); ok {
		m.state = cancelStateResult
		m.result, m.err = res.result, res.err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m CancelModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "n":
		next := NewCancelModel(m.svc)
		next.fields.Usuario = m.fields.Usuario
		next.fields.Perfil = m.fields.Perfil
		return next, next.Init()
	}

	return m, nil
}

func buildCancelForm(f *cancelFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("uuid").
				Title("Invoice UUID").
				Value(&f.UUID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("uuid cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("motivo").
				Title("Motivo").
				Options(
					huh.NewOption("01 Comprobante emitido con errores con relación", "01"),
					huh.NewOption("02 Comprobante emitido con errores sin relación", "02"),
					huh.NewOption("03 No se llevó a cabo la operación", "03"),
					huh.NewOption("04 Operación nominativa en factura global", "04"),
				).
				Value(&f.Motivo),

			huh.NewInput().
				Key("usuario").
				Title("Usuario").
				Value(&f.Usuario),

			huh.NewInput().
				Key("perfil").
				Title("Perfil").
				Placeholder("FACTURACION").
				Value(&f.Perfil),
		),
	).WithWidth(60).WithShowHelp(false)
}

type cancelResultMsg struct {
	result *invoice.CancelResult
	err    error
}

func (m CancelModel) submitCmd() tea.Cmd {
	params := invoice.CancelParams{
		UUID:          strings.TrimSpace(m.fields.UUID),
		Motivo:        m.fields.Motivo,
		Usuario:       strings.TrimSpace(m.fields.Usuario),
		PerfilUsuario: strings.TrimSpace(m.fields.Perfil),
	}

	return func() tea.Msg {
		ctx, cancel := CallCtx()
		defer cancel()

		res, err := m.svc.Cancel(ctx, params)
		return cancelResultMsg{result: res, err: err}
	}
}

func (m CancelModel) View() string {
	switch m.state {
	case cancelStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			titleStyle.Render(m.Title()) + "\n\n" + m.form.View() + "\n" + helpStyle.Render(m.ShortHelp()),
		)

	case cancelStateSubmitting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Requesting cancellation of %s...", m.spinner.View(), m.fields.UUID),
		)

	case cancelStateResult:
		return m.viewResult()
	}

	return ""
}

func (m CancelModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errStyle.Render(describe(m.err)) + "\n\n" + helpStyle.Render(m.ShortHelp()),
		)
	}

	inv := m.result.Invoice

	header := "Cancellation applied"
	if m.result.PACStatus == invoice.PACStatusEnProceso {
		header = "Cancellation pending receptor acceptance"
	}

	details := fmt.Sprintf(
		"UUID:     %s\nPAC:      %s\nEstado:   %s\nReceipt:  %s\nEmisor:   %s\nReceptor: %s\nTotal:    %s",
		inv.UUID,
		statusStyle(m.result.PACStatus).Render(m.result.PACStatus),
		inv.Estado,
		m.result.ReceiptID,
		inv.EmisorRFC,
		inv.ReceptorRFC,
		FormatTotal(inv.Total),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		statusStyle(m.result.PACStatus).Render(header) + "\n\n" + details + "\n\n" + helpStyle.Render(m.ShortHelp()),
	)
}
