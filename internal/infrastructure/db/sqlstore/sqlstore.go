// Package sqlstore implements the user and request log repositories on a
// relational database through gorm. Postgres and SQLite are supported.
package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Config selects the dialect and data source.
type Config struct {
	Dialect string
	// DSN is a postgres connection URL, or a file path (or ":memory:") for sqlite.
	DSN string
	// Migrate applies the schema on open.
	Migrate bool
	Log     zerolog.Logger
}

// Open connects to the configured database, verifies it with a ping and
// applies the schema when cfg.Migrate is set. Postgres schemas come from the
// embedded migrations; sqlite uses gorm's AutoMigrate.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:  newGormLogger(cfg.Log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Dialect {
	case DialectPostgres:
		if cfg.Migrate {
			if err := ApplyMigrations(cfg.DSN, cfg.Log); err != nil {
				return nil, err
			}
		}
		db, err = gorm.Open(postgres.Open(cfg.DSN), gcfg)
	case DialectSQLite:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gcfg)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", cfg.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}

	if cfg.Dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1) // single writer
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Dialect, err)
	}

	if cfg.Dialect == DialectSQLite && cfg.Migrate {
		if err := db.WithContext(ctx).AutoMigrate(&userModel{}, &requestLogModel{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity; used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return ":memory:?_foreign_keys=ON"
	}
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON"
}
