package pac

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrNotFound = errors.New("cancel request not found")

// Status is the lifecycle state of a cancellation request. Anything other
// than StatusEnProceso is terminal.
type Status string

const (
	StatusEnProceso Status = "EN_PROCESO"
	StatusCancelada Status = "CANCELADA"
	StatusRechazada Status = "RECHAZADA"
)

func (s Status) Terminal() bool {
	return s == StatusCancelada || s == StatusRechazada
}

// Result codes recorded on a request once it has an outcome.
const (
	CodeOK                = "0"
	CodeFueraVentana      = "FUERA_VENTANA_FISCAL"
	CodeRequiereSustituto = "REQUIERE_SUSTITUTO"
	CodeRequiere01        = "REQUIERE_01"
	CodeRechazoReceptor   = "RECHAZADA_RECEPTOR"
)

// Cancellation reasons accepted by the tax authority.
const (
	MotivoConRelacion   = "01"
	MotivoSinRelacion   = "02"
	MotivoNoOperacion   = "03"
	MotivoFacturaGlobal = "04"
)

func ValidMotivo(m string) bool {
	switch m {
	case MotivoConRelacion, MotivoSinRelacion, MotivoNoOperacion, MotivoFacturaGlobal:
		return true
	}

	return false
}

// Invoice types.
const (
	TipoIngreso  = "INGRESO"
	TipoEgreso   = "EGRESO"
	TipoNomina   = "NOMINA"
	TipoTraslado = "TRASLADO"
)

// NormalizeTipo upper-cases the invoice type and defaults blanks to INGRESO.
func NormalizeTipo(tipo string) string {
	t := strings.TrimSpace(tipo)
	if t == "" {
		return TipoIngreso
	}

	return cases.Upper(language.Und).String(t)
}

// Request is one attempt in the cancellation lineage of an invoice. The
// lineage key is UUID; Attempt orders the attempts, the highest one is the
// current state of the case.
type Request struct {
	ID      int64
	UUID    string
	Attempt int

	Motivo          string
	RFCEmisor       string
	RFCReceptor     string
	Total           *float64
	Tipo            string
	FechaFactura    *time.Time
	PublicoGeneral  bool
	TieneRelaciones bool
	UUIDSustituto   string

	Status        Status
	ReceiptID     string
	ResultCode    string
	ResultMessage string
	DecidedAt     *time.Time
	CreatedAt     time.Time
}

// Resolution is the terminal outcome written by the reconciler.
type Resolution struct {
	Status        Status
	ResultCode    string
	ResultMessage string
	DecidedAt     time.Time
}

func (r *Request) apply(d Decision) {
	r.Status = d.Status
	r.ReceiptID = d.ReceiptID
	r.ResultCode = d.ResultCode
	r.ResultMessage = d.ResultMessage
	r.DecidedAt = d.DecidedAt
}
