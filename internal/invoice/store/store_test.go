package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

var invoiceColumns = []string{
	"uuid", "emisor_rfc", "receptor_rfc", "fecha_factura", "total", "serie", "folio", "tienda", "estado",
}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return New(db), mock
}

func TestStore_FindByUUID(t *testing.T) {
	s, mock := newStore(t)

	fecha := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM facturas WHERE uuid = \\$1").
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow("A", "AAA010101AAA", "XAXX010101000", fecha, "1250.50", "F", "100", nil, "VIGENTE"))

	got, err := s.FindByUUID(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, "AAA010101AAA", got.EmisorRFC)
	require.NotNil(t, got.FechaFactura)
	assert.Equal(t, fecha, *got.FechaFactura)
	assert.True(t, got.Total.Valid)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(got.Total.Decimal))
	assert.Equal(t, "F", got.Serie)
	assert.Empty(t, got.Tienda)
	assert.Equal(t, "VIGENTE", got.Estado)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByUUID_NullColumns(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM facturas").
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow("A", "E", "R", nil, nil, nil, nil, nil, "ACTIVA"))

	got, err := s.FindByUUID(context.Background(), "A")
	require.NoError(t, err)

	assert.Nil(t, got.FechaFactura)
	assert.False(t, got.Total.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByUUID_NotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM facturas").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	_, err := s.FindByUUID(context.Background(), "missing")
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFiscalYears(t *testing.T) {
	lo, hi := fiscalYears(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, 2024, lo)
	assert.Equal(t, 2025, hi)

	lo, hi = fiscalYears(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, lo)
	assert.Equal(t, 2025, hi)

	// 2025-02-01 02:00 UTC.
	lo, hi = fiscalYears(time.Date(2025, 1, 31, 20, 0, 0, 0, time.FixedZone("CST", -6*3600)))
	assert.Equal(t, 2025, lo)
	assert.Equal(t, 2025, hi)
}

func TestStore_MarkCancelled(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "Updated", affected: 1, want: true},
		{name: "GuardFailed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)

			mock.ExpectExec("UPDATE facturas SET estado = \\$2 WHERE uuid = \\$1 AND UPPER\\(TRIM\\(estado\\)\\) IN .* EXTRACT\\(YEAR FROM fecha_factura AT TIME ZONE 'UTC'\\)").
				WithArgs("A", "CANCELADA", "VIGENTE", "ACTIVA", "EMITIDA", 2024, 2025).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := s.MarkCancelled(context.Background(), "A", now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_MarkInProcess(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec("UPDATE facturas").
		WithArgs("A", "EN PROCESO DE CANCELACION", "VIGENTE", "ACTIVA", "EMITIDA").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.MarkInProcess(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateEstado(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec("UPDATE facturas SET estado = \\$2 WHERE uuid = \\$1").
		WithArgs("A", "RECHAZADA").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE facturas").
		WithArgs("B", "RECHAZADA").
		WillReturnError(errors.New("db error"))

	ok, err := s.UpdateEstado(context.Background(), "A", "RECHAZADA")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.UpdateEstado(context.Background(), "B", "RECHAZADA")
	assert.ErrorContains(t, err, "updating invoice estado")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListByEstado(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM facturas WHERE estado = \\$1").
		WithArgs(invoice.EstadoEnProceso).
		WillReturnRows(sqlmock.NewRows(invoiceColumns).
			AddRow("A", "E", "R", nil, "5000.00", nil, nil, nil, invoice.EstadoEnProceso).
			AddRow("B", "E", "R", nil, "7000.00", nil, nil, nil, invoice.EstadoEnProceso))

	got, err := s.ListByEstado(context.Background(), invoice.EstadoEnProceso)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
