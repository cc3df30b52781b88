package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const callTimeout = 35 * time.Second

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// FormatTotal renders an invoice total with two decimals, or "-" when unknown.
func FormatTotal(total decimal.NullDecimal) string {
	if !total.Valid {
		return "-"
	}

	return total.Decimal.StringFixed(2)
}

// FormatDate formats an optional invoice date into YYYY-MM-DD.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Format("2006-01-02")
}

// CallCtx returns a context bounding one round trip through the service,
// which may include a PAC call.
func CallCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}

// statusStyle colours a PAC or invoice status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "CANCELADA":
		return okStyle
	case "EN_PROCESO", "EN PROCESO DE CANCELACION":
		return warnStyle
	}

	return errStyle
}
