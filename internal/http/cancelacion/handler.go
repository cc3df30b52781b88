package cancelacion

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
	"github.com/MrJamesThe3rd/facturacion/internal/validation"
)

type Handler struct {
	svc      *invoice.Service
	validate *validatorv10.Validate
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc, validate: validation.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/cancelar", h.cancel)
	r.Post("/cancelacion/callback", h.callback)
	r.Get("/health", h.health)
}

// The orchestrator validates its own preconditions, so the body is only
// decoded here.
type cancelRequest struct {
	UUID          string `json:"uuid"`
	Motivo        string `json:"motivo"`
	Usuario       string `json:"usuario"`
	PerfilUsuario string `json:"perfilUsuario"`
}

type callbackRequest struct {
	UUID   string `json:"uuid" validate:"required,notblank"`
	Status string `json:"status" validate:"required,notblank"`
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		writeJSON(w, http.StatusBadRequest, failure(CodigoValidacion, "Solicitud inválida"))
		return
	}

	res, err := h.svc.Cancel(r.Context(), invoice.CancelParams{
		UUID:          req.UUID,
		Motivo:        req.Motivo,
		Usuario:       req.Usuario,
		PerfilUsuario: req.PerfilUsuario,
	})
	if err != nil {
		status, body := classify(err)
		if status == http.StatusInternalServerError {
			slog.Error("cancellation failed", "uuid", req.UUID, "error", err)
		}

		writeJSON(w, status, body)

		return
	}

	writeJSON(w, http.StatusOK, success(res.Invoice))
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := validation.DecodeJSON(r, &req, h.validate); err != nil {
		writeJSON(w, http.StatusBadRequest, failure(CodigoValidacion, "Callback inválido"))
		return
	}

	if err := h.svc.ApplyCallback(r.Context(), req.UUID, req.Status); err != nil {
		status, body := classify(err)
		if status == http.StatusInternalServerError {
			slog.Error("callback failed", "uuid", req.UUID, "error", err)
		}

		writeJSON(w, status, body)

		return
	}

	writeJSON(w, http.StatusOK, success())
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Servicio de consulta de facturas funcionando correctamente"))
}
