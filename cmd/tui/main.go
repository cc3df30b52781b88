package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/facturacion/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/facturacion/internal/config"
	"github.com/MrJamesThe3rd/facturacion/internal/database"
	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/facturacion/internal/invoice/store"
	"github.com/MrJamesThe3rd/facturacion/internal/pacclient"
)

type model struct {
	invoiceService *invoice.Service

	currentView View

	cancelView  view.CancelModel
	statusView  view.StatusModel
	pendingView view.PendingModel
}

const menuTitle = "Facturación TUI"

type View int

const (
	ViewMenu    View = 0
	ViewCancel  View = 1
	ViewStatus  View = 2
	ViewPending View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(context.Background(), cfg.ConnectionString(), database.SchemaFacturacion)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	svc := invoice.NewService(invoiceStore.New(db), pacclient.New(cfg.PAC.BaseURL, cfg.PAC.Timeout), nil)

	return model{
		invoiceService: svc,
		currentView:    ViewMenu,
		cancelView:     view.NewCancelModel(svc),
		statusView:     view.NewStatusModel(svc),
		pendingView:    view.NewPendingModel(svc),
	}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle(menuTitle)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCancel
				m.cancelView = view.NewCancelModel(m.invoiceService)

				return m, m.enter(m.cancelView)
			case "2":
				m.currentView = ViewStatus
				m.statusView = view.NewStatusModel(m.invoiceService)

				return m, m.enter(m.statusView)
			case "3":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.invoiceService)

				return m, m.enter(m.pendingView)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, tea.SetWindowTitle(menuTitle)
	}

	switch m.currentView {
	case ViewCancel:
		var newModel tea.Model
		newModel, cmd = m.cancelView.Update(msg)
		m.cancelView = newModel.(view.CancelModel)
	case ViewStatus:
		var newModel tea.Model
		newModel, cmd = m.statusView.Update(msg)
		m.statusView = newModel.(view.StatusModel)
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	}

	return m, cmd
}

func (m model) enter(v view.View) tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(menuTitle+" - "+v.Title()), v.Init())
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewCancel:
		return m.cancelView
	case ViewStatus:
		return m.statusView
	case ViewPending:
		return m.pendingView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			menuTitle + "\n\n" +
				"1. Request Cancellation\n" +
				"2. PAC Status Lookup\n" +
				"3. Pending Cancellations\n\n" +
				"q. Quit",
		)
	}

	if v := m.active(); v != nil {
		return v.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
