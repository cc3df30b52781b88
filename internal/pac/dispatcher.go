package pac

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxAttempts = 5
	baseBackoff        = time.Second
)

// Notification is a pending callback stored in the outbox.
type Notification struct {
	ID            uuid.UUID
	UUID          string
	Status        Status
	Attempts      int
	MaxAttempts   int
	LastError     string
	NextAttemptAt time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}

func (n *Notification) MarkDelivered(at time.Time) {
	n.Attempts++
	n.LastError = ""
	n.DeliveredAt = &at
}

// MarkFailed counts the attempt and schedules the next one with
// exponential backoff: 1s, 2s, 4s, ...
func (n *Notification) MarkFailed(errMsg string, at time.Time) {
	n.Attempts++
	n.LastError = errMsg
	n.NextAttemptAt = at.Add(baseBackoff * time.Duration(1<<uint(n.Attempts-1)))
}

// IsDead reports whether the notification ran out of attempts undelivered.
func (n *Notification) IsDead() bool {
	return n.DeliveredAt == nil && n.Attempts >= n.MaxAttempts
}

//go:generate mockgen -source=dispatcher.go -destination=outbox_mock.go -package=pac
type OutboxRepository interface {
	// DueNotifications returns undelivered, live notifications whose next
	// attempt is at or before now.
	DueNotifications(ctx context.Context, now time.Time, limit int) ([]*Notification, error)
	UpdateNotification(ctx context.Context, n *Notification) error
}

type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Now          func() time.Time
}

// Dispatcher delivers outbox notifications at least once.
type Dispatcher struct {
	repo     OutboxRepository
	notifier Notifier
	config   DispatcherConfig
	now      func() time.Time

	dispatching sync.Mutex
	loop        loop
}

func NewDispatcher(repo OutboxRepository, notifier Notifier, config DispatcherConfig) *Dispatcher {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		repo:     repo,
		notifier: notifier,
		config:   config,
		now:      now,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	if !d.loop.start(ctx, d.config.PollInterval, func(ctx context.Context) { _, _ = d.Dispatch(ctx) }) {
		return
	}

	slog.Info("callback dispatcher started", "poll_interval", d.config.PollInterval)
}

func (d *Dispatcher) Stop(ctx context.Context) error {
	if err := d.loop.stop(ctx); err != nil {
		return err
	}

	slog.Info("callback dispatcher stopped")

	return nil
}

// Dispatch attempts every due notification once and returns how many were
// delivered.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	if !d.dispatching.TryLock() {
		return 0, nil
	}
	defer d.dispatching.Unlock()

	due, err := d.repo.DueNotifications(ctx, d.now(), d.config.BatchSize)
	if err != nil {
		slog.Error("failed to load due notifications", "error", err)
		return 0, err
	}

	delivered := 0

	for _, n := range due {
		if ctx.Err() != nil {
			break
		}

		if d.deliver(ctx, n) {
			delivered++
		}
	}

	return delivered, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *Notification) bool {
	err := d.notifier.Notify(ctx, n.UUID, n.Status)
	if err == nil {
		n.MarkDelivered(d.now())
		slog.Info("callback delivered", "uuid", n.UUID, "status", n.Status, "attempts", n.Attempts)
	} else {
		n.MarkFailed(err.Error(), d.now())

		if n.IsDead() {
			slog.Warn("callback abandoned after max attempts",
				"uuid", n.UUID, "status", n.Status, "attempts", n.Attempts, "last_error", n.LastError)
		} else {
			slog.Warn("callback failed, will retry",
				"uuid", n.UUID, "status", n.Status, "attempts", n.Attempts, "next_attempt_at", n.NextAttemptAt, "error", err)
		}
	}

	if updateErr := d.repo.UpdateNotification(ctx, n); updateErr != nil {
		slog.Error("failed to update notification", "id", n.ID, "error", updateErr)
	}

	return err == nil
}
