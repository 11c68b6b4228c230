package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"chat-quiz/internal/logger"
)

const migrationsTableDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version NUMBER(19) PRIMARY KEY,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL
)`

// Execer is the subset of *sql.DB the migration runner needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RunMigrations applies every up migration in fsys (root "migrations") that is
// not yet recorded in schema_migrations, in version order. Each file holds a
// single statement.
func RunMigrations(ctx context.Context, db Execer, fsys fs.FS) error {
	src, err := iofs.New(fsys, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations source: %w", err)
	}
	defer src.Close()

	if _, err := db.ExecContext(ctx, migrationsTableDDL); err != nil {
		return fmt.Errorf("could not create schema_migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	l := logger.Get()
	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if applied[version] {
			continue
		}
		if err := applyMigration(ctx, db, src, version); err != nil {
			return err
		}
		l.Info("Executed migration", zap.Uint("version", version))
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not read migrations: %w", err)
	}

	l.Info("Migrations completed successfully", zap.Int("previouslyApplied", len(applied)))
	return nil
}

func appliedVersions(ctx context.Context, db Execer) (map[uint]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[uint]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("could not scan migration version: %w", err)
		}
		applied[uint(v)] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db Execer, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		// down-only version
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read migration %d_%s: %w", version, identifier, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`,
		int64(version), time.Now()); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}
	return nil
}

// NewMigrateOracleDB opens a plain *sql.DB for the migration command.
func NewMigrateOracleDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return db, nil
}
