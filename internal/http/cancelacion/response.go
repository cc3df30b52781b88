package cancelacion

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

// Codes distinguishing failure classes in the envelope.
const (
	CodigoValidacion      = "VALIDACION"
	CodigoNoEncontrada    = "NO_ENCONTRADA"
	CodigoRechazada       = "RECHAZADA"
	CodigoInconsistencia  = "INCONSISTENCIA"
	CodigoPACNoDisponible = "PAC_NO_DISPONIBLE"
	CodigoErrorInterno    = "ERROR_INTERNO"
)

const mensajeExito = "Consulta realizada exitosamente"

type facturaResponse struct {
	UUID         string     `json:"uuid"`
	RFCEmisor    string     `json:"rfcEmisor"`
	RFCReceptor  string     `json:"rfcReceptor"`
	FechaFactura *time.Time `json:"fechaFactura"`
	Total        *string    `json:"total"`
	Serie        string     `json:"serie,omitempty"`
	Folio        string     `json:"folio,omitempty"`
	Tienda       string     `json:"tienda,omitempty"`
	Estado       string     `json:"estado"`
}

// envelope is the response shape of every Invoice Service endpoint.
type envelope struct {
	Exitoso       bool              `json:"exitoso"`
	Mensaje       string            `json:"mensaje"`
	Timestamp     time.Time         `json:"timestamp"`
	Facturas      []facturaResponse `json:"facturas"`
	TotalFacturas int               `json:"totalFacturas"`
	Error         string            `json:"error,omitempty"`
	Codigo        string            `json:"codigo,omitempty"`
}

func toFactura(inv *invoice.Invoice) facturaResponse {
	f := facturaResponse{
		UUID:         inv.UUID,
		RFCEmisor:    inv.EmisorRFC,
		RFCReceptor:  inv.ReceptorRFC,
		FechaFactura: inv.FechaFactura,
		Serie:        inv.Serie,
		Folio:        inv.Folio,
		Tienda:       inv.Tienda,
		Estado:       inv.Estado,
	}

	if inv.Total.Valid {
		f.Total = new(inv.Total.Decimal.StringFixed(2))
	}

	return f
}

func success(invoices ...*invoice.Invoice) envelope {
	facturas := make([]facturaResponse, 0, len(invoices))
	for _, inv := range invoices {
		facturas = append(facturas, toFactura(inv))
	}

	return envelope{
		Exitoso:       true,
		Mensaje:       mensajeExito,
		Timestamp:     time.Now(),
		Facturas:      facturas,
		TotalFacturas: len(facturas),
	}
}

func failure(codigo, mensaje string) envelope {
	return envelope{
		Mensaje:   mensaje,
		Timestamp: time.Now(),
		Facturas:  []facturaResponse{},
		Error:     mensaje,
		Codigo:    codigo,
	}
}

// classify maps a service error to its HTTP status and envelope.
func classify(err error) (int, envelope) {
	var cancelErr *invoice.Error
	if !errors.As(err, &cancelErr) {
		return http.StatusInternalServerError, failure(CodigoErrorInterno, "Error interno del servidor")
	}

	switch {
	case errors.Is(err, invoice.ErrInvalidRequest):
		return http.StatusBadRequest, failure(CodigoValidacion, cancelErr.Message)
	case errors.Is(err, invoice.ErrNotFound):
		return http.StatusBadRequest, failure(CodigoNoEncontrada, cancelErr.Message)
	case errors.Is(err, invoice.ErrRejected):
		return http.StatusBadRequest, failure(CodigoRechazada, cancelErr.Message)
	case errors.Is(err, invoice.ErrPACUnavailable):
		return http.StatusInternalServerError, failure(CodigoPACNoDisponible, cancelErr.Message)
	case errors.Is(err, invoice.ErrInconsistent):
		return http.StatusInternalServerError, failure(CodigoInconsistencia, cancelErr.Message)
	}

	return http.StatusInternalServerError, failure(CodigoErrorInterno, "Error interno del servidor")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
