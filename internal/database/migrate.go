package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"conceptme/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createVersionTable = `BEGIN
  EXECUTE IMMEDIATE 'CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL, name VARCHAR2(255) NOT NULL, applied_at TIMESTAMP NOT NULL, CONSTRAINT schema_migrations_pk PRIMARY KEY (version))';
EXCEPTION
  WHEN OTHERS THEN
    IF SQLCODE != -955 THEN
      RAISE;
    END IF;
END;`

// MigrationStatus describes one migration file and whether it has been applied.
type MigrationStatus struct {
	Version   uint
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator applies the embedded up migrations in version order. golang-migrate
// has no Oracle database driver, so its iofs source is read here and each file
// is executed through database/sql. Every file holds a single statement.
type Migrator struct {
	db  *sql.DB
	src source.Driver
}

func NewMigrator(db *sql.DB) (*Migrator, error) {
	return newMigrator(db, migrationFiles, "migrations")
}

func newMigrator(db *sql.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	log := logger.Get()
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	err = m.walk(func(version uint) error {
		if _, ok := applied[version]; ok {
			return nil
		}
		name, err := m.apply(ctx, version)
		if err != nil {
			return err
		}
		log.Info("Applied migration", zap.Uint("version", version), zap.String("name", name))
		count++
		return nil
	})
	return count, err
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var statuses []MigrationStatus
	err = m.walk(func(version uint) error {
		r, name, err := m.src.ReadUp(version)
		if err != nil {
			return fmt.Errorf("failed to read migration %d: %w", version, err)
		}
		r.Close()
		st := MigrationStatus{Version: version, Name: name}
		if at, ok := applied[version]; ok {
			st.Applied = true
			at := at
			st.AppliedAt = &at
		}
		statuses = append(statuses, st)
		return nil
	})
	return statuses, err
}

func (m *Migrator) walk(fn func(version uint) error) error {
	version, err := m.src.First()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read first migration: %w", err)
	}
	for {
		if err := fn(version); err != nil {
			return err
		}
		next, err := m.src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read migration after %d: %w", version, err)
		}
		version = next
	}
}

func (m *Migrator) apply(ctx context.Context, version uint) (string, error) {
	r, name, err := m.src.ReadUp(version)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	stmt := strings.TrimSuffix(strings.TrimSpace(string(body)), ";")
	if stmt == "" {
		return "", fmt.Errorf("migration %d (%s) is empty", version, name)
	}

	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return "", fmt.Errorf("migration %d (%s) failed: %w", version, name, err)
	}
	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (:1, :2, :3)`,
		int64(version), name, time.Now().UTC(),
	); err != nil {
		return "", fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return name, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[uint]time.Time, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[uint]time.Time)
	for rows.Next() {
		var version int64
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan schema_migrations: %w", err)
		}
		applied[uint(version)] = at
	}
	return applied, rows.Err()
}
