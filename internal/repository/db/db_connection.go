package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"user_manager/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName = "sqlite"
	mysqlDriverName  = "mysql"

	pingTimeout = 3 * time.Second
)

// Open connects to the configured database, applies the schema and pings it.
// The returned pool is shared by every request; the caller closes it on shutdown.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return InitSQLite(ctx, cfg.Path)
	case config.DriverMySQL:
		return InitMySQL(ctx, MySQLDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// MySQLDSN builds a go-sql-driver DSN from the DB_* settings.
func MySQLDSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

// InitMySQL opens a MySQL pool and ensures tables exist.
func InitMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(mysqlDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitSQLite opens/creates a SQLite DB file and ensures tables exist.
func InitSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(pingCtx)
}

// Both statements are valid for MySQL and SQLite. Username and email carry no
// UNIQUE constraint: uniqueness is checked by the application before insert.
const schemaUsers = `
CREATE TABLE IF NOT EXISTS user (
    id VARCHAR(36) PRIMARY KEY,
    username VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    password VARCHAR(255) NOT NULL
);
`

const schemaUserEvents = `
CREATE TABLE IF NOT EXISTS user_events (
    id VARCHAR(36) PRIMARY KEY,
    occurred_at TIMESTAMP(6) NOT NULL,
    type VARCHAR(32) NOT NULL,
    user_id VARCHAR(36),
    message TEXT NOT NULL,
    meta TEXT
);
`

func ensureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaUsers,
		schemaUserEvents,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
