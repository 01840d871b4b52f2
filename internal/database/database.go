// Package database owns the connection to the question store.
//
// Two drivers are supported:
//   - postgres: a pgx connection pool (pgxpool) with query tracing/logging
//     (pgx tracelog) and optional New Relic instrumentation (nrpgx5)
//   - sqlite: a database/sql handle on go-sqlite3 for local runs and tests
//
// It handles:
//   - opening the store from config and pinging it so startup fails fast
//   - pool sizing from config
//   - schema bootstrap (see migrator.go)
//   - closing the store on shutdown
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/online-quiz/internal/config"
	loggerConfig "github.com/deppfellow/online-quiz/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database wraps the store handle and a logger.
//
// Exactly one of Pool (postgres) or SQL (sqlite) is set, matching Driver.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
	log    *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping
// before considering the database unreachable.
const DatabasePingTimeout = 10

// New opens the store selected by cfg.Database.Driver and pings it.
//
// Inputs:
//   - cfg: application config (driver, host, credentials, pool settings)
//   - logger: main app logger
//   - loggerService: New Relic service (its application is nil when disabled)
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}

		logger.Info().Str("driver", config.DriverSQLite).Str("path", cfg.Database.Path).Msg("connected to the database")

		return &Database{Driver: config.DriverSQLite, SQL: sqlDB, log: logger}, nil

	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}

		logger.Info().Str("driver", config.DriverPostgres).Msg("connected to the database")

		return &Database{Driver: config.DriverPostgres, Pool: pool, log: logger}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// openPostgres builds the pgx pool config, attaches tracers and pings.
//
// Tracers:
//   - New Relic (nrpgx5) when the agent is running
//   - slow query warnings when a threshold is configured
//   - full SQL logging (pgx tracelog + zerolog) in the "local" env only
//
// pgx has a single Tracer slot, so more than one is chained with multiTracer.
func openPostgres(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*pgxpool.Pool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	// Very noisy, which is why it's only on in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// OpenSQLite opens (creating if needed) the sqlite file at path and pings it.
//
// SQLite allows one writer at a time, so the handle is limited to a single
// connection and waits up to 5s on a locked database instead of failing.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqlDB, nil
}

// Ping checks connectivity; used by the health endpoint.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return db.SQL.PingContext(ctx)
}

// Close closes the pool (postgres) or handle (sqlite).
func (db *Database) Close() error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection")

	if db.Pool != nil {
		db.Pool.Close()
		return nil
	}
	return db.SQL.Close()
}
