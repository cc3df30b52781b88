package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Schema names match the directories under migrations/.
const (
	SchemaPAC         = "pac"
	SchemaFacturacion = "facturacion"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every pending up migration of the given schema.
func Migrate(db *sql.DB, schema string) error {
	src, err := iofs.New(migrations, "migrations/"+schema)
	if err != nil {
		return fmt.Errorf("opening migrations for %s: %w", schema, err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{
		MigrationsTable: "schema_migrations_" + schema,
	})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, schema, driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations for %s: %w", schema, err)
	}

	version, dirty, _ := m.Version()
	slog.Info("schema up to date", "schema", schema, "version", version, "dirty", dirty)

	return nil
}
