// Package database opens the configured SQL engine.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arllen133/userdb/config"
	"github.com/arllen133/userdb/orm"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Open connects to the database described by cfg and verifies it with a ping.
// The returned handle is owned by the caller and lives for the whole process.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*sql.DB, orm.Dialect, error) {
	dialect, err := orm.DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Opening database connection",
		zap.String("driver", dialect.Name()),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
	)

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", dialect.Name(), err)
	}
	if dialect == orm.SQLite {
		// a second connection to :memory: would see an empty database
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		logger.Error("Database ping failed", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to ping %s: %w", dialect.Name(), err)
	}

	logger.Info("Database connection established")
	return db, dialect, nil
}
