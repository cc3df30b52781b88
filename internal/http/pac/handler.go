package pac

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
	"github.com/MrJamesThe3rd/facturacion/internal/validation"
)

type Handler struct {
	svc      *pac.Service
	validate *validatorv10.Validate
}

func NewHandler(svc *pac.Service) *Handler {
	return &Handler{svc: svc, validate: validation.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/cancel", h.cancel)
	r.Get("/status/{uuid}", h.status)
}

type cancelRequest struct {
	UUID            string   `json:"uuid" validate:"required,notblank"`
	Motivo          string   `json:"motivo" validate:"required,motivo"`
	RFCEmisor       string   `json:"rfcEmisor" validate:"required,notblank"`
	RFCReceptor     string   `json:"rfcReceptor" validate:"required,notblank"`
	Total           *float64 `json:"total"`
	Tipo            string   `json:"tipo"`
	FechaFactura    string   `json:"fechaFactura"`
	PublicoGeneral  bool     `json:"publicoGeneral"`
	TieneRelaciones bool     `json:"tieneRelaciones"`
	UUIDSustituto   string   `json:"uuidSustituto"`
}

type response struct {
	OK        bool    `json:"ok"`
	Status    string  `json:"status"`
	ReceiptID *string `json:"receiptId"`
	Message   *string `json:"message"`
}

func toResponse(r *pac.Request) response {
	resp := response{OK: true, Status: string(r.Status)}

	if r.ReceiptID != "" {
		resp.ReceiptID = new(r.ReceiptID)
	}

	if r.ResultMessage != "" {
		resp.Message = new(r.ResultMessage)
	}

	return resp
}

// fechaLayouts are the ISO-8601 offset forms accepted for fechaFactura.
var fechaLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

func parseFecha(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid fechaFactura %q: want an ISO-8601 date-time with offset", s)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fecha, err := parseFecha(req.FechaFactura)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := h.svc.RequestCancellation(r.Context(), &pac.Request{
		UUID:            strings.TrimSpace(req.UUID),
		Motivo:          req.Motivo,
		RFCEmisor:       req.RFCEmisor,
		RFCReceptor:     req.RFCReceptor,
		Total:           req.Total,
		Tipo:            req.Tipo,
		FechaFactura:    fecha,
		PublicoGeneral:  req.PublicoGeneral,
		TieneRelaciones: req.TieneRelaciones,
		UUIDSustituto:   req.UUIDSustituto,
	})
	if err != nil {
		slog.Error("failed to request cancellation", "uuid", req.UUID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, toResponse(saved))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	uuid := strings.TrimSpace(chi.URLParam(r, "uuid"))
	if uuid == "" {
		http.Error(w, "uuid required", http.StatusBadRequest)
		return
	}

	req, err := h.svc.Status(r.Context(), uuid)
	if err != nil {
		if errors.Is(err, pac.ErrNotFound) {
			http.Error(w, "cancel request not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to get cancel status", "uuid", uuid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, toResponse(req))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
