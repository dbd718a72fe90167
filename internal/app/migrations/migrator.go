package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/pkg/logger"
)

// Migrator applies the SQL files under the migrations directory exactly once
// each. A file's version is its filename prefix before the first underscore
// ("001_init.sql" → "001"); applied versions are recorded in
// schema_migrations.
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("error creating schema_migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking migration %s: %w", version, err)
	}
	return exists, nil
}

// applyFile runs one migration file. The statements and the version record
// land in the same transaction, so a failed migration leaves no trace.
func (m *Migrator) applyFile(ctx context.Context, path string) error {
	filename := filepath.Base(path)
	version := strings.SplitN(filename, "_", 2)[0]

	done, err := m.applied(ctx, version)
	if err != nil {
		return err
	}
	if done {
		logger.Info().Str("file", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading migration %s: %w", filename, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting migration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error executing migration %s: %w", filename, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now())
	if err != nil {
		return fmt.Errorf("error recording migration %s: %w", filename, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing migration %s: %w", filename, err)
	}

	logger.Info().Str("file", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies every .sql file in dirPath in filename order
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("error reading migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.applyFile(ctx, filepath.Join(dirPath, file)); err != nil {
			return err
		}
	}

	return nil
}
