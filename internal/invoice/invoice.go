package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estado values of an invoice. Only the cancellation path writes them.
const (
	EstadoVigente   = "VIGENTE"
	EstadoActiva    = "ACTIVA"
	EstadoEmitida   = "EMITIDA"
	EstadoEnProceso = "EN PROCESO DE CANCELACION"
	EstadoCancelada = "CANCELADA"
	EstadoRechazada = "RECHAZADA"
)

// CancellableEstados are the estados from which a cancellation may start.
var CancellableEstados = []string{EstadoVigente, EstadoActiva, EstadoEmitida}

// Cancellable reports whether estado allows starting a cancellation.
func Cancellable(estado string) bool {
	e := strings.ToUpper(strings.TrimSpace(estado))
	for _, c := range CancellableEstados {
		if e == c {
			return true
		}
	}

	return false
}

// Invoice is the subset of a stored CFDI the cancellation flow reads.
type Invoice struct {
	UUID         string
	EmisorRFC    string
	ReceptorRFC  string
	FechaFactura *time.Time
	Total        decimal.NullDecimal
	Serie        string
	Folio        string
	Tienda       string
	Estado       string
}

var (
	ErrInvalidRequest = errors.New("invalid cancellation request")
	ErrNotFound       = errors.New("invoice not found")
	ErrRejected       = errors.New("cancellation rejected")
	ErrInconsistent   = errors.New("pac and invoice store disagree")
	ErrPACUnavailable = errors.New("pac unavailable")
)

// Error is a cancellation failure carrying the message shown to the
// operator. Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
