package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers "pgx" driver
	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"taxi24/internal/config"
	"taxi24/internal/logger"
)

// sqlDriverName picks the database/sql driver. lib/pq is traced through
// nrpq when New Relic is enabled; pgx is used as is.
func sqlDriverName(driver string, nrEnabled bool) string {
	switch {
	case driver == config.DriverPGX:
		return "pgx"
	case nrEnabled:
		return "nrpostgres"
	default:
		return "postgres"
	}
}

// NewDatabase opens the PostgreSQL pool and verifies it.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application, log logger.Logger) (*sql.DB, error) {
	name := sqlDriverName(cfg.Driver, nrApp != nil)
	if cfg.Driver == config.DriverPGX && nrApp != nil {
		log.Warn(ctx, "sql tracing is only available with the postgres driver", "driver", cfg.Driver)
	}

	db, err := sql.Open(name, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", name, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info(ctx, "connected to postgres", "driver", name, "host", cfg.Host, "database", cfg.DBName)
	return db, nil
}
