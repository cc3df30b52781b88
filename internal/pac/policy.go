package pac

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Amounts at or below this are cancelled without receptor acceptance.
	maxAmountWithoutAcceptance = 1000.0
	// Invoices younger than this are cancelled without receptor acceptance.
	maxAgeWithoutAcceptance = 36 * time.Hour

	receiptIDLength = 12
)

// Decision is the synchronous verdict of the policy for a new request.
type Decision struct {
	Status        Status
	ReceiptID     string
	ResultCode    string
	ResultMessage string
	DecidedAt     *time.Time
}

// Policy decides whether a request is rejected, cancelled right away or
// left waiting for the receptor. Rules are evaluated in order and the first
// one that matches wins.
type Policy struct {
	now       func() time.Time
	receiptID func() string
}

// NewPolicy builds a policy reading the clock through now. A nil now uses
// the wall clock.
func NewPolicy(now func() time.Time) *Policy {
	if now == nil {
		now = time.Now
	}

	return &Policy{
		now:       now,
		receiptID: newReceiptID,
	}
}

func (p *Policy) Evaluate(r *Request) Decision {
	now := p.now()

	if !withinFiscalWindow(r.FechaFactura, now) {
		return reject(CodeFueraVentana, "Fuera de ventana fiscal")
	}

	if r.Motivo == MotivoConRelacion && strings.TrimSpace(r.UUIDSustituto) == "" {
		return reject(CodeRequiereSustituto, "Motivo 01 requiere UUID sustituto")
	}

	if r.TieneRelaciones && r.Motivo != MotivoConRelacion {
		return reject(CodeRequiere01, "CFDI con relaciones requiere motivo 01 con sustitución")
	}

	d := Decision{ReceiptID: p.receiptID()}

	if !acceptanceRequired(r, now) {
		d.Status = StatusCancelada
		d.ResultCode = CodeOK
		d.ResultMessage = "Cancelación inmediata"
		d.DecidedAt = &now

		return d
	}

	d.Status = StatusEnProceso

	return d
}

func reject(code, message string) Decision {
	return Decision{
		Status:        StatusRechazada,
		ResultCode:    code,
		ResultMessage: message,
	}
}

// withinFiscalWindow allows the current calendar year, and the previous one
// while the current month is January. Years are taken in UTC. A missing date
// is always allowed.
func withinFiscalWindow(fecha *time.Time, now time.Time) bool {
	if fecha == nil {
		return true
	}

	year, now := fecha.UTC().Year(), now.UTC()

	if year == now.Year() {
		return true
	}

	return year == now.Year()-1 && now.Month() == time.January
}

func acceptanceRequired(r *Request, now time.Time) bool {
	if r.PublicoGeneral {
		return false
	}

	if r.Total != nil && *r.Total <= maxAmountWithoutAcceptance {
		return false
	}

	switch NormalizeTipo(r.Tipo) {
	case TipoNomina, TipoEgreso, TipoTraslado:
		return false
	}

	if r.FechaFactura != nil && now.Sub(*r.FechaFactura) <= maxAgeWithoutAcceptance {
		return false
	}

	return true
}

func newReceiptID() string {
	return uuid.NewString()[:receiptIDLength]
}
