package pac

import (
	"context"
	"fmt"
	"log/slog"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=pac
type Repository interface {
	// Create appends r to the lineage of r.UUID in a single transaction,
	// assigning ID, Attempt and CreatedAt.
	Create(ctx context.Context, r *Request) error
	// Latest returns the highest attempt for uuid or ErrNotFound.
	Latest(ctx context.Context, uuid string) (*Request, error)
	// ListPending returns up to limit requests still EN_PROCESO, oldest first.
	ListPending(ctx context.Context, limit int) ([]*Request, error)
	// Resolve moves request id to a terminal state only if it is still
	// EN_PROCESO. It reports false when another actor resolved it first.
	// With enqueue set a callback notification is stored in the same
	// transaction.
	Resolve(ctx context.Context, id int64, res Resolution, enqueue bool) (bool, error)
}

type Service struct {
	repo   Repository
	policy *Policy
}

func NewService(repo Repository, policy *Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

// RequestCancellation evaluates the policy for r and persists the attempt
// with its initial decision.
func (s *Service) RequestCancellation(ctx context.Context, r *Request) (*Request, error) {
	slog.Info("cancel request received",
		"uuid", r.UUID, "motivo", r.Motivo, "total", r.Total, "tipo", r.Tipo, "fecha", r.FechaFactura)

	r.Tipo = NormalizeTipo(r.Tipo)
	r.apply(s.policy.Evaluate(r))

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating cancel request: %w", err)
	}

	slog.Info("cancel request decided",
		"uuid", r.UUID, "attempt", r.Attempt, "status", r.Status, "code", r.ResultCode)

	return r, nil
}

// Status returns the current attempt for uuid.
func (s *Service) Status(ctx context.Context, uuid string) (*Request, error) {
	return s.repo.Latest(ctx, uuid)
}
