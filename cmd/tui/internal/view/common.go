package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

var (
	_ View = CancelModel{}
	_ View = StatusModel{}
	_ View = PendingModel{}
)

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
