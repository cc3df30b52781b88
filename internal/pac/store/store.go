package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
)

type Store struct {
	db          *sql.DB
	maxAttempts int
}

// New returns a store whose outbox notifications get maxAttempts delivery
// attempts. A non-positive value uses pac.DefaultMaxAttempts.
func New(db *sql.DB, maxAttempts int) *Store {
	if maxAttempts <= 0 {
		maxAttempts = pac.DefaultMaxAttempts
	}

	return &Store{db: db, maxAttempts: maxAttempts}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRequestColumns = `
	id, uuid, attempt, motivo, rfc_emisor, rfc_receptor, total, tipo, fecha_factura,
	publico_general, tiene_relaciones, uuid_sustituto, status, receipt_id,
	result_code, result_message, decided_at, created_at
`

// scanRequest expects the columns of selectRequestColumns, in order.
func scanRequest(s scanner) (*pac.Request, error) {
	var r pac.Request

	var status string

	var tipo, sustituto, receipt, code, message sql.NullString

	if err := s.Scan(
		&r.ID, &r.UUID, &r.Attempt, &r.Motivo, &r.RFCEmisor, &r.RFCReceptor, &r.Total, &tipo, &r.FechaFactura,
		&r.PublicoGeneral, &r.TieneRelaciones, &sustituto, &status, &receipt,
		&code, &message, &r.DecidedAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Status = pac.Status(status)
	r.Tipo = tipo.String
	r.UUIDSustituto = sustituto.String
	r.ReceiptID = receipt.String
	r.ResultCode = code.String
	r.ResultMessage = message.String

	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// lineageLockKey serializes attempt numbering per invoice.
func lineageLockKey(invoiceUUID string) int64 {
	h := fnv.New64a()
	h.Write([]byte("cancel_requests"))
	h.Write([]byte{0})
	h.Write([]byte(invoiceUUID))

	return int64(h.Sum64())
}

func (s *Store) Create(ctx context.Context, r *pac.Request) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lineageLockKey(r.UUID)); err != nil {
		return fmt.Errorf("acquiring lineage lock: %w", err)
	}

	if err := dbTx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(attempt), 0) + 1 FROM cancel_requests WHERE uuid = $1`, r.UUID,
	).Scan(&r.Attempt); err != nil {
		return fmt.Errorf("computing attempt: %w", err)
	}

	query := `
		INSERT INTO cancel_requests (
			uuid, attempt, motivo, rfc_emisor, rfc_receptor, total, tipo, fecha_factura,
			publico_general, tiene_relaciones, uuid_sustituto, status, receipt_id,
			result_code, result_message, decided_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		r.UUID,
		r.Attempt,
		r.Motivo,
		r.RFCEmisor,
		r.RFCReceptor,
		r.Total,
		nullString(r.Tipo),
		r.FechaFactura,
		r.PublicoGeneral,
		r.TieneRelaciones,
		nullString(r.UUIDSustituto),
		r.Status,
		nullString(r.ReceiptID),
		nullString(r.ResultCode),
		nullString(r.ResultMessage),
		r.DecidedAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting cancel request: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) Latest(ctx context.Context, invoiceUUID string) (*pac.Request, error) {
	query := `SELECT ` + selectRequestColumns + `
		FROM cancel_requests
		WHERE uuid = $1
		ORDER BY attempt DESC
		LIMIT 1`

	r, err := scanRequest(s.db.QueryRowContext(ctx, query, invoiceUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pac.ErrNotFound
		}

		return nil, fmt.Errorf("getting latest cancel request: %w", err)
	}

	return r, nil
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]*pac.Request, error) {
	query := `SELECT ` + selectRequestColumns + `
		FROM cancel_requests
		WHERE status = $1
		ORDER BY id ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, pac.StatusEnProceso, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending cancel requests: %w", err)
	}
	defer rows.Close()

	var out []*pac.Request

	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cancel request: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cancel requests: %w", err)
	}

	return out, nil
}

func (s *Store) Resolve(ctx context.Context, id int64, res pac.Resolution, enqueue bool) (bool, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE cancel_requests
		SET status = $2, result_code = $3, result_message = $4, decided_at = $5
		WHERE id = $1 AND status = $6
		RETURNING uuid
	`

	var invoiceUUID string

	err = dbTx.QueryRowContext(ctx, query,
		id, res.Status, res.ResultCode, res.ResultMessage, res.DecidedAt, pac.StatusEnProceso,
	).Scan(&invoiceUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("resolving cancel request: %w", err)
	}

	if enqueue {
		insert := `
			INSERT INTO callback_outbox (id, uuid, status, attempts, max_attempts, next_attempt_at, created_at)
			VALUES ($1, $2, $3, 0, $4, $5, $5)
		`

		if _, err := dbTx.ExecContext(ctx, insert,
			uuid.New(), invoiceUUID, res.Status, s.maxAttempts, res.DecidedAt,
		); err != nil {
			return false, fmt.Errorf("enqueueing callback: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}

	return true, nil
}

func scanNotification(s scanner) (*pac.Notification, error) {
	var n pac.Notification

	var status string

	var lastError sql.NullString

	if err := s.Scan(
		&n.ID, &n.UUID, &status, &n.Attempts, &n.MaxAttempts, &lastError,
		&n.NextAttemptAt, &n.DeliveredAt, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	n.Status = pac.Status(status)
	n.LastError = lastError.String

	return &n, nil
}

func (s *Store) DueNotifications(ctx context.Context, now time.Time, limit int) ([]*pac.Notification, error) {
	query := `
		SELECT id, uuid, status, attempts, max_attempts, last_error, next_attempt_at, delivered_at, created_at
		FROM callback_outbox
		WHERE delivered_at IS NULL AND attempts < max_attempts AND next_attempt_at <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing due notifications: %w", err)
	}
	defer rows.Close()

	var out []*pac.Notification

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateNotification(ctx context.Context, n *pac.Notification) error {
	query := `
		UPDATE callback_outbox
		SET attempts = $2, last_error = $3, next_attempt_at = $4, delivered_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		n.ID, n.Attempts, nullString(n.LastError), n.NextAttemptAt, n.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("notification %s not found", n.ID)
	}

	return nil
}
