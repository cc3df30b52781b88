package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

type PendingModel struct {
	svc *invoice.Service

	table    table.Model
	invoices []*invoice.Invoice

	loading bool
	err     error
}

func NewPendingModel(svc *invoice.Service) PendingModel {
	columns := []table.Column{
		{Title: "UUID", Width: 38},
		{Title: "Fecha", Width: 12},
		{Title: "Serie-Folio", Width: 14},
		{Title: "Receptor", Width: 15},
		{Title: "Total", Width: 12},
		{Title: "Tienda", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return PendingModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m PendingModel) Title() string { return "Pending Cancellations" }

func (m PendingModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			m.refreshTable()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.UUID,
			FormatDate(inv.FechaFactura),
			serieFolio(inv),
			inv.ReceptorRFC,
			FormatTotal(inv.Total),
			inv.Tienda,
		})
	}
	m.table.SetRows(rows)
}

func serieFolio(inv *invoice.Invoice) string {
	switch {
	case inv.Serie == "":
		return inv.Folio
	case inv.Folio == "":
		return inv.Serie
	}

	return inv.Serie + "-" + inv.Folio
}

type loadPendingMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m PendingModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := CallCtx()
		defer cancel()

		invoices, err := m.svc.Pending(ctx)
		return loadPendingMsg{invoices: invoices, err: err}
	}
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending cancellations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle.Render(describe(m.err)) + "\n\n" + helpStyle.Render(m.ShortHelp()))
	}

	header := fmt.Sprintf("%s (%d)", titleStyle.Render(m.Title()), len(m.invoices))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
			helpStyle.Render(m.ShortHelp()),
		),
	)
}
