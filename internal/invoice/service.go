package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PAC statuses as returned by the PAC Service.
const (
	PACStatusEnProceso = "EN_PROCESO"
	PACStatusCancelada = "CANCELADA"
	PACStatusRechazada = "RECHAZADA"
)

// Profiles that may never cancel an invoice.
var restrictedProfiles = map[string]bool{
	"CONSULTA":     true,
	"RESTRINGIDO":  true,
	"SIN_PERMISOS": true,
	"BLOQUEADO":    true,
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// FindByUUID returns the invoice or ErrNotFound.
	FindByUUID(ctx context.Context, uuid string) (*Invoice, error)
	// MarkCancelled sets CANCELADA if the invoice is still cancellable and
	// inside the fiscal window at now. It reports whether a row changed.
	MarkCancelled(ctx context.Context, uuid string, now time.Time) (bool, error)
	// MarkInProcess sets EN PROCESO DE CANCELACION if the invoice is still
	// cancellable. It reports whether a row changed.
	MarkInProcess(ctx context.Context, uuid string) (bool, error)
	// UpdateEstado sets estado unconditionally. It reports whether the
	// invoice exists.
	UpdateEstado(ctx context.Context, uuid, estado string) (bool, error)
	ListByEstado(ctx context.Context, estado string) ([]*Invoice, error)
}

type PACClient interface {
	RequestCancellation(ctx context.Context, req PACRequest) (*PACResponse, error)
	// Status returns the latest outcome for uuid, or an error wrapping
	// ErrNotFound when the PAC has none.
	Status(ctx context.Context, uuid string) (*PACResponse, error)
}

// PACRequest is what the Invoice Service sends to the PAC for a cancellation.
type PACRequest struct {
	UUID            string
	Motivo          string
	RFCEmisor       string
	RFCReceptor     string
	Total           float64
	Tipo            string
	FechaFactura    time.Time
	PublicoGeneral  bool
	TieneRelaciones bool
	UUIDSustituto   string
}

type PACResponse struct {
	OK        bool
	Status    string
	ReceiptID string
	Message   string
}

type CancelParams struct {
	UUID          string
	Motivo        string
	Usuario       string
	PerfilUsuario string
}

// CancelResult is a cancellation admitted by the PAC and committed locally.
type CancelResult struct {
	Invoice   *Invoice
	PACStatus string
	ReceiptID string
}

type Service struct {
	repo Repository
	pac  PACClient
	now  func() time.Time
}

// NewService builds the orchestrator. A nil now uses the wall clock.
func NewService(repo Repository, pac PACClient, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{repo: repo, pac: pac, now: now}
}

// Cancel validates p, asks the PAC to cancel the invoice and records the
// outcome in the invoice store. Failures are *Error values.
func (s *Service) Cancel(ctx context.Context, p CancelParams) (*CancelResult, error) {
	slog.Info("cancellation requested", "uuid", p.UUID, "usuario", p.Usuario)

	uuid := strings.TrimSpace(p.UUID)
	if uuid == "" {
		return nil, fail(ErrInvalidRequest, "UUID requerido para cancelar")
	}

	if !canCancel(p.PerfilUsuario) {
		return nil, fail(ErrInvalidRequest, "Usuario sin permisos para cancelar")
	}

	if !validMotivo(p.Motivo) {
		return nil, fail(ErrInvalidRequest, "Motivo de cancelación inválido")
	}

	inv, err := s.repo.FindByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fail(ErrNotFound, "Factura no encontrada por UUID")
		}

		return nil, fmt.Errorf("finding invoice: %w", err)
	}

	if !Cancellable(inv.Estado) {
		return nil, fail(ErrInvalidRequest, "Estatus de facturación no permite cancelación: "+inv.Estado)
	}

	resp, err := s.pac.RequestCancellation(ctx, s.pacRequest(inv, p.Motivo))
	if err != nil {
		slog.Error("pac call failed", "uuid", uuid, "error", err)
		return nil, fail(ErrPACUnavailable, "Error llamando PAC")
	}

	slog.Info("pac answered", "uuid", uuid, "ok", resp.OK, "status", resp.Status, "receipt_id", resp.ReceiptID)

	switch {
	case resp.OK && strings.EqualFold(resp.Status, PACStatusCancelada):
		ok, err := s.repo.MarkCancelled(ctx, inv.UUID, s.now())
		if err != nil {
			return nil, fmt.Errorf("marking invoice cancelled: %w", err)
		}

		if !ok {
			slog.Error("pac approved cancellation but invoice was not updated", "uuid", uuid)
			return nil, fail(ErrInconsistent, "PAC aprobó pero BD no actualizó")
		}

		inv.Estado = EstadoCancelada

	case resp.OK && strings.EqualFold(resp.Status, PACStatusEnProceso):
		ok, err := s.repo.MarkInProcess(ctx, inv.UUID)
		if err != nil {
			return nil, fmt.Errorf("marking invoice in process: %w", err)
		}

		if !ok {
			slog.Error("pac admitted cancellation but invoice was not updated", "uuid", uuid)
			return nil, fail(ErrInconsistent, "No se pudo marcar EN_PROCESO en BD")
		}

		inv.Estado = EstadoEnProceso

	default:
		msg := resp.Message
		if msg == "" {
			msg = "PAC rechazó"
		}

		return nil, fail(ErrRejected, msg)
	}

	slog.Info("cancellation committed", "uuid", uuid, "estado", inv.Estado)

	return &CancelResult{Invoice: inv, PACStatus: strings.ToUpper(resp.Status), ReceiptID: resp.ReceiptID}, nil
}

func (s *Service) pacRequest(inv *Invoice, motivo string) PACRequest {
	fecha := s.now()
	if inv.FechaFactura != nil {
		fecha = *inv.FechaFactura
	}

	var total float64
	if inv.Total.Valid {
		total = inv.Total.Decimal.InexactFloat64()
	}

	// The invoice store does not carry the general-public or related-CFDI
	// flags, so both are sent as false.
	return PACRequest{
		UUID:         inv.UUID,
		Motivo:       motivo,
		RFCEmisor:    inv.EmisorRFC,
		RFCReceptor:  inv.ReceptorRFC,
		Total:        total,
		Tipo:         "INGRESO",
		FechaFactura: fecha,
	}
}

// ApplyCallback records the terminal status the PAC reports for uuid.
func (s *Service) ApplyCallback(ctx context.Context, uuid, status string) error {
	uuid = strings.TrimSpace(uuid)
	status = strings.TrimSpace(status)

	if uuid == "" || status == "" {
		return fail(ErrInvalidRequest, "Callback inválido")
	}

	estado := cases.Upper(language.Und).String(status)

	ok, err := s.repo.UpdateEstado(ctx, uuid, estado)
	if err != nil {
		return fmt.Errorf("updating estado: %w", err)
	}

	if !ok {
		slog.Warn("callback for unknown invoice", "uuid", uuid, "status", estado)
		return fail(ErrNotFound, "No se actualizó estado en BD")
	}

	slog.Info("callback applied", "uuid", uuid, "estado", estado)

	return nil
}

// PACStatus asks the PAC for the current outcome of uuid.
func (s *Service) PACStatus(ctx context.Context, uuid string) (*PACResponse, error) {
	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return nil, fail(ErrInvalidRequest, "UUID requerido")
	}

	return s.pac.Status(ctx, uuid)
}

// Pending lists invoices waiting for the receptor to answer.
func (s *Service) Pending(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListByEstado(ctx, EstadoEnProceso)
}

func canCancel(perfil string) bool {
	p := strings.ToUpper(strings.TrimSpace(perfil))
	return p != "" && !restrictedProfiles[p]
}

func validMotivo(m string) bool {
	switch m {
	case "01", "02", "03", "04":
		return true
	}

	return false
}
