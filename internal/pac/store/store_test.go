package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
)

var requestColumns = []string{
	"id", "uuid", "attempt", "motivo", "rfc_emisor", "rfc_receptor", "total", "tipo", "fecha_factura",
	"publico_general", "tiene_relaciones", "uuid_sustituto", "status", "receipt_id",
	"result_code", "result_message", "decided_at", "created_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db, mock
}

func TestLineageLockKey(t *testing.T) {
	assert.Equal(t, lineageLockKey("A"), lineageLockKey("A"))
	assert.NotEqual(t, lineageLockKey("A"), lineageLockKey("B"))
}

func TestStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	created := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	total := 500.0
	r := &pac.Request{
		UUID:        "A",
		Motivo:      pac.MotivoSinRelacion,
		RFCEmisor:   "AAA010101AAA",
		RFCReceptor: "XAXX010101000",
		Total:       &total,
		Tipo:        pac.TipoIngreso,
		Status:      pac.StatusEnProceso,
		ReceiptID:   "abcdef123456",
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(lineageLockKey("A")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(attempt), 0) + 1 FROM cancel_requests")).
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"attempt"}).AddRow(3))
	mock.ExpectQuery("INSERT INTO cancel_requests").
		WithArgs(
			"A", 3, pac.MotivoSinRelacion, "AAA010101AAA", "XAXX010101000", total, pac.TipoIngreso, nil,
			false, false, nil, string(pac.StatusEnProceso), "abcdef123456", nil, nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))
	mock.ExpectCommit()

	require.NoError(t, s.Create(context.Background(), r))

	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, 3, r.Attempt)
	assert.Equal(t, created, r.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Create_LockError(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WillReturnError(errors.New("conn closed"))
	mock.ExpectRollback()

	err := s.Create(context.Background(), &pac.Request{UUID: "A"})
	assert.ErrorContains(t, err, "acquiring lineage lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Latest(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	created := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fecha := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM cancel_requests WHERE uuid = \\$1 ORDER BY attempt DESC LIMIT 1").
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(
			int64(7), "A", int64(2), "02", "AAA010101AAA", "XAXX010101000", 5000.0, "INGRESO", fecha,
			false, false, nil, "RECHAZADA", "abcdef123456",
			"RECHAZADA_RECEPTOR", "Receptor rechazó la cancelación", created, created,
		))

	got, err := s.Latest(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, 2, got.Attempt)
	assert.Equal(t, pac.StatusRechazada, got.Status)
	require.NotNil(t, got.Total)
	assert.InDelta(t, 5000.0, *got.Total, 0.001)
	require.NotNil(t, got.FechaFactura)
	assert.Equal(t, fecha, *got.FechaFactura)
	assert.Empty(t, got.UUIDSustituto)
	assert.Equal(t, "RECHAZADA_RECEPTOR", got.ResultCode)
	require.NotNil(t, got.DecidedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Latest_NotFound(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	mock.ExpectQuery("FROM cancel_requests").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(requestColumns))

	_, err := s.Latest(context.Background(), "missing")
	assert.ErrorIs(t, err, pac.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListPending(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	created := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM cancel_requests WHERE status = \\$1 ORDER BY id ASC LIMIT \\$2").
		WithArgs(string(pac.StatusEnProceso), 2).
		WillReturnRows(sqlmock.NewRows(requestColumns).
			AddRow(int64(1), "A", int64(1), "02", "E", "R", nil, nil, nil,
				false, false, nil, "EN_PROCESO", "r1", nil, nil, nil, created).
			AddRow(int64(2), "B", int64(1), "02", "E", "R", 2000.0, "INGRESO", nil,
				false, false, nil, "EN_PROCESO", "r2", nil, nil, nil, created))

	got, err := s.ListPending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].UUID)
	assert.Nil(t, got[0].Total)
	assert.Nil(t, got[0].DecidedAt)
	assert.Equal(t, "B", got[1].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Resolve(t *testing.T) {
	decided := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	res := pac.Resolution{
		Status:        pac.StatusCancelada,
		ResultCode:    pac.CodeOK,
		ResultMessage: "Cancelación aceptada por receptor",
		DecidedAt:     decided,
	}

	type testCase struct {
		name    string
		enqueue bool
		setup   func(mock sqlmock.Sqlmock)
		wantOK  bool
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Resolved",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("UPDATE cancel_requests").
					WithArgs(int64(9), string(pac.StatusCancelada), pac.CodeOK, res.ResultMessage, decided, string(pac.StatusEnProceso)).
					WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("A"))
				mock.ExpectCommit()
			},
			wantOK: true,
		},
		{
			name:    "ResolvedWithOutbox",
			enqueue: true,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("UPDATE cancel_requests").
					WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("A"))
				mock.ExpectExec("INSERT INTO callback_outbox").
					WithArgs(sqlmock.AnyArg(), "A", string(pac.StatusCancelada), 3, decided).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantOK: true,
		},
		{
			name: "AlreadyResolved",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("UPDATE cancel_requests").
					WillReturnRows(sqlmock.NewRows([]string{"uuid"}))
				mock.ExpectRollback()
			},
			wantOK: false,
		},
		{
			name:    "OutboxInsertFails",
			enqueue: true,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("UPDATE cancel_requests").
					WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("A"))
				mock.ExpectExec("INSERT INTO callback_outbox").
					WillReturnError(errors.New("db error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			s := New(db, 3)

			tt.setup(mock)

			ok, err := s.Resolve(context.Background(), 9, res, tt.enqueue)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantOK, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_DueNotifications(t *testing.T) {
	db, mock := newMock(t)
	s := New(db, 0)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	mock.ExpectQuery("FROM callback_outbox WHERE delivered_at IS NULL AND attempts < max_attempts").
		WithArgs(now, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "uuid", "status", "attempts", "max_attempts", "last_error", "next_attempt_at", "delivered_at", "created_at",
		}).AddRow(id.String(), "A", "CANCELADA", int64(1), int64(5), "connection refused", now, nil, now))

	got, err := s.DueNotifications(context.Background(), now, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, pac.StatusCancelada, got[0].Status)
	assert.Equal(t, 1, got[0].Attempts)
	assert.Equal(t, "connection refused", got[0].LastError)
	assert.Nil(t, got[0].DeliveredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateNotification(t *testing.T) {
	delivered := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	n := &pac.Notification{ID: uuid.New(), Attempts: 2, NextAttemptAt: delivered, DeliveredAt: &delivered}

	t.Run("Updated", func(t *testing.T) {
		db, mock := newMock(t)
		s := New(db, 0)

		mock.ExpectExec("UPDATE callback_outbox").
			WithArgs(n.ID, 2, nil, delivered, delivered).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateNotification(context.Background(), n))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock := newMock(t)
		s := New(db, 0)

		mock.ExpectExec("UPDATE callback_outbox").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Error(t, s.UpdateNotification(context.Background(), n))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
