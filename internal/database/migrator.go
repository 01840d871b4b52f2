package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/deppfellow/online-quiz/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Migration files are compiled into the binary.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate brings the schema up to date for the configured driver.
//
// Postgres goes through jackc/tern (versioned in schema_version). SQLite has
// no tern support, so its idempotent DDL files are executed in name order.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, db *Database) error {
	switch db.Driver {
	case config.DriverPostgres:
		return migratePostgres(ctx, logger, cfg)
	case config.DriverSQLite:
		if err := MigrateSQLite(ctx, db.SQL); err != nil {
			return err
		}
		logger.Info().Msg("database schema up to date")
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// migratePostgres runs the tern migrations on a dedicated connection.
func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// MigrateSQLite executes the embedded sqlite schema files against db.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/sqlite/*.sql")
	if err != nil {
		return fmt.Errorf("listing sqlite migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		stmt, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
	}
	return nil
}
