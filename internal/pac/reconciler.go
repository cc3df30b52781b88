package pac

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

//go:generate mockgen -source=reconciler.go -destination=notifier_mock.go -package=pac

// Notifier propagates a terminal status back to the Invoice Service.
type Notifier interface {
	Notify(ctx context.Context, uuid string, status Status) error
}

type ReconcilerConfig struct {
	Interval  time.Duration
	BatchSize int
	// Outbox stores notifications next to the resolution for the Dispatcher
	// instead of calling the Notifier once, inline.
	Outbox bool
	// Now stamps DecidedAt. Defaults to time.Now.
	Now func() time.Time
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Interval:  15 * time.Second,
		BatchSize: 100,
	}
}

// Reconciler periodically resolves EN_PROCESO requests through the
// acceptance oracle.
type Reconciler struct {
	repo     Repository
	oracle   AcceptanceOracle
	notifier Notifier
	config   ReconcilerConfig
	now      func() time.Time

	ticking sync.Mutex
	loop    loop
}

func NewReconciler(repo Repository, oracle AcceptanceOracle, notifier Notifier, config ReconcilerConfig) *Reconciler {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Reconciler{
		repo:     repo,
		oracle:   oracle,
		notifier: notifier,
		config:   config,
		now:      now,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	if !r.loop.start(ctx, r.config.Interval, func(ctx context.Context) { _, _ = r.Tick(ctx) }) {
		return
	}

	slog.Info("reconciler started",
		"interval", r.config.Interval, "batch_size", r.config.BatchSize, "outbox", r.config.Outbox)
}

func (r *Reconciler) Stop(ctx context.Context) error {
	if err := r.loop.stop(ctx); err != nil {
		return err
	}

	slog.Info("reconciler stopped")

	return nil
}

// Tick resolves one batch of pending requests and returns how many it
// resolved. A call made while another tick is in flight returns at once.
// Every record is resolved in its own transaction, so an interrupted tick
// leaves the rest EN_PROCESO for the next one.
func (r *Reconciler) Tick(ctx context.Context) (int, error) {
	if !r.ticking.TryLock() {
		slog.Debug("reconcile tick skipped, previous tick still running")
		return 0, nil
	}
	defer r.ticking.Unlock()

	pending, err := r.repo.ListPending(ctx, r.config.BatchSize)
	if err != nil {
		slog.Error("failed to list pending cancel requests", "error", err)
		return 0, err
	}

	if len(pending) > 0 {
		slog.Info("resolving pending cancel requests", "count", len(pending))
	}

	resolved := 0

	for _, req := range pending {
		if ctx.Err() != nil {
			break
		}

		if r.resolve(ctx, req) {
			resolved++
		}
	}

	return resolved, nil
}

func (r *Reconciler) resolve(ctx context.Context, req *Request) bool {
	if req.Status.Terminal() {
		return false
	}

	approved, err := r.oracle.Decide(ctx, req)
	if err != nil {
		slog.Warn("acceptance oracle failed, request stays pending", "uuid", req.UUID, "error", err)
		return false
	}

	res := receptorResolution(approved, r.now())

	ok, err := r.repo.Resolve(ctx, req.ID, res, r.config.Outbox)
	if err != nil {
		slog.Error("failed to resolve cancel request", "uuid", req.UUID, "id", req.ID, "error", err)
		return false
	}

	if !ok {
		slog.Info("cancel request already resolved", "uuid", req.UUID, "id", req.ID)
		return false
	}

	req.Status = res.Status
	req.ResultCode = res.ResultCode
	req.ResultMessage = res.ResultMessage
	req.DecidedAt = &res.DecidedAt

	slog.Info("cancel request resolved", "uuid", req.UUID, "status", res.Status)

	if !r.config.Outbox && r.notifier != nil {
		r.notify(ctx, req.UUID, res.Status)
	}

	return true
}

// notify makes a single delivery attempt. The resolution is already
// committed, so a failure is only logged.
func (r *Reconciler) notify(ctx context.Context, uuid string, status Status) {
	if err := r.notifier.Notify(ctx, uuid, status); err != nil {
		slog.Warn("callback to invoice service failed", "uuid", uuid, "status", status, "error", err)
		return
	}

	slog.Info("callback sent to invoice service", "uuid", uuid, "status", status)
}

func receptorResolution(approved bool, now time.Time) Resolution {
	if approved {
		return Resolution{
			Status:        StatusCancelada,
			ResultCode:    CodeOK,
			ResultMessage: "Cancelación aceptada por receptor",
			DecidedAt:     now,
		}
	}

	return Resolution{
		Status:        StatusRechazada,
		ResultCode:    CodeRechazoReceptor,
		ResultMessage: "Receptor rechazó la cancelación",
		DecidedAt:     now,
	}
}
