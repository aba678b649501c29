// Package sqlstore implements planner.Store on database/sql for SQLite
// (modernc.org/sqlite) and PostgreSQL (github.com/lib/pq).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/planner"
)

// Config selects the driver and connection pool.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver          string        `json:"driver"`
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.DSN == "" && c.Driver == DriverSQLite {
		c.DSN = "planner.db"
	}
	if c.MaxOpenConns == 0 && c.Driver == DriverPostgres {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns == 0 && c.Driver == DriverPostgres {
		c.MaxIdleConns = 5
	}
}

// Validate checks the driver and DSN.
func (c Config) Validate() error {
	if _, err := dialectFor(c.Driver); err != nil {
		return fmt.Errorf("store.driver: %w", err)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return errors.New("store.dsn is required")
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return errors.New("store: pool sizes must not be negative")
	}
	return nil
}

// Store is a planner.Store backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
	log     logger.Logger
}

var _ planner.Store = (*Store)(nil)

// Open connects to the database described by cfg. It does not apply migrations.
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, _ := dialectFor(cfg.Driver)
	dsn := cfg.DSN
	if d.name == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.name, err)
	}
	if d.name == DriverSQLite {
		// One writer at a time; also keeps :memory: databases on a single connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", d.name, err)
	}
	return &Store{db: db, dialect: d, log: logger.OrNop(log)}, nil
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx planner.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()
	if err = fn(&tx{tx: sqlTx, d: s.dialect}); err != nil {
		if rerr := sqlTx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			s.log.Warnf("rollback: %v", rerr)
		}
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", s.dialect.classify(err))
	}
	return nil
}
