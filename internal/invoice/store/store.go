package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	uuid, emisor_rfc, receptor_rfc, fecha_factura, total, serie, folio, tienda, estado
`

// scanInvoice expects the columns of selectInvoiceColumns, in order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var serie, folio, tienda sql.NullString

	if err := s.Scan(
		&inv.UUID, &inv.EmisorRFC, &inv.ReceptorRFC, &inv.FechaFactura, &inv.Total,
		&serie, &folio, &tienda, &inv.Estado,
	); err != nil {
		return nil, err
	}

	inv.Serie = serie.String
	inv.Folio = folio.String
	inv.Tienda = tienda.String

	return &inv, nil
}

func (s *Store) FindByUUID(ctx context.Context, uuid string) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM facturas WHERE uuid = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

// fiscalYears returns the range of invoice years, in UTC, that may still be
// cancelled at now.
func fiscalYears(now time.Time) (int, int) {
	now = now.UTC()

	if now.Month() == time.January {
		return now.Year() - 1, now.Year()
	}

	return now.Year(), now.Year()
}

func (s *Store) MarkCancelled(ctx context.Context, uuid string, now time.Time) (bool, error) {
	minYear, maxYear := fiscalYears(now)

	query := `
		UPDATE facturas
		SET estado = $2
		WHERE uuid = $1
		  AND UPPER(TRIM(estado)) IN ($3, $4, $5)
		  AND (fecha_factura IS NULL OR EXTRACT(YEAR FROM fecha_factura AT TIME ZONE 'UTC') BETWEEN $6 AND $7)
	`

	return s.exec(ctx, "marking invoice cancelled", query,
		uuid, invoice.EstadoCancelada,
		invoice.EstadoVigente, invoice.EstadoActiva, invoice.EstadoEmitida,
		minYear, maxYear,
	)
}

func (s *Store) MarkInProcess(ctx context.Context, uuid string) (bool, error) {
	query := `
		UPDATE facturas
		SET estado = $2
		WHERE uuid = $1
		  AND UPPER(TRIM(estado)) IN ($3, $4, $5)
	`

	return s.exec(ctx, "marking invoice in process", query,
		uuid, invoice.EstadoEnProceso,
		invoice.EstadoVigente, invoice.EstadoActiva, invoice.EstadoEmitida,
	)
}

func (s *Store) UpdateEstado(ctx context.Context, uuid, estado string) (bool, error) {
	return s.exec(ctx, "updating invoice estado",
		`UPDATE facturas SET estado = $2 WHERE uuid = $1`, uuid, estado)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (bool, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *Store) ListByEstado(ctx context.Context, estado string) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM facturas
		WHERE estado = $1
		ORDER BY fecha_factura DESC NULLS LAST, uuid ASC`

	rows, err := s.db.QueryContext(ctx, query, estado)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var out []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		out = append(out, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return out, nil
}
