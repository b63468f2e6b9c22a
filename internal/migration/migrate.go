// Package migration applies the embedded goose migrations over a
// database/sql connection opened with the lib/pq driver.
package migration

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/BradenHooton/frontdesk/internal/config"
	"github.com/BradenHooton/frontdesk/migrations"
)

type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMigrator(cfg *config.DatabaseConfig, logger *slog.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewMigratorFromDB(db, logger)
}

// NewMigratorFromDB uses an already opened connection, e.g. pgx stdlib in tests
func NewMigratorFromDB(db *sql.DB, logger *slog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	return &Migrator{db: db, logger: logger}, nil
}

func (m *Migrator) Up() error {
	if err := goose.Up(m.db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, err := m.CurrentVersion()
	if err == nil {
		m.logger.Info("migrations applied", slog.Int64("version", version))
	}
	return nil
}

func (m *Migrator) Down() error {
	if err := goose.Down(m.db, "."); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

func (m *Migrator) CurrentVersion() (int64, error) {
	return goose.GetDBVersion(m.db)
}

func (m *Migrator) Close() error {
	return m.db.Close()
}
