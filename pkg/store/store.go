// Package store implements a keyed collection store on top of SQLite. Each container is a table
// with an integer row key and a text column.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Store wraps the database connection shared by all containers
type Store struct {
	db *sqlx.DB
}

// Config represents store connection configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int
}

// Open connects to the store. The connection is verified with a ping, retried with backoff
// up to ConnectAttempts times; a failure is reported as *ConnectError.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:newstag.db?cache=shared&mode=rwc"
	}
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 1
	}

	db, err := sqlx.Open("sqlite", withBusyTimeout(cfg.DSN))
	if err != nil {
		return nil, &ConnectError{Err: fmt.Errorf("open database: %w", err)}
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	retrier := repeater.NewBackoff(cfg.ConnectAttempts, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	if err := retrier.Do(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, &ConnectError{Err: fmt.Errorf("ping database: %w", err)}
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, &ConnectError{Err: fmt.Errorf("execute %s: %w", pragma, err)}
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureContainer creates the container described by info unless it already exists.
// An existing container with the same columns is returned as is, a container with
// different columns is an error.
func (s *Store) EnsureContainer(ctx context.Context, info ContainerInfo) (*Container, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}

	existing, err := s.containerInfo(ctx, info.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.sameColumns(info) {
			return nil, fmt.Errorf("container %s exists with columns %s, requested %s",
				info.Name, existing.columnsString(), info.columnsString())
		}
		lgr.Printf("[DEBUG] container %s already exists", info.Name)
		return &Container{db: s.db, info: info}, nil
	}

	if _, err := s.db.ExecContext(ctx, info.createSQL()); err != nil {
		return nil, &WriteError{Op: "create container " + info.Name, Err: err}
	}
	lgr.Printf("[INFO] container %s created", info.Name)
	return &Container{db: s.db, info: info}, nil
}

// ContainersInfo returns descriptions of all containers in the store, ordered by name
func (s *Store) ContainersInfo(ctx context.Context) ([]ContainerInfo, error) {
	var names []string
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, &ReadError{Op: "list containers", Err: err}
	}

	res := make([]ContainerInfo, 0, len(names))
	for _, name := range names {
		info, err := s.containerInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		if info != nil {
			res = append(res, *info)
		}
	}
	return res, nil
}

// DropContainer removes the container and all its rows. Dropping a missing container is not an error.
func (s *Store) DropContainer(ctx context.Context, name string) error {
	if !validName(name) {
		return fmt.Errorf("invalid container name %q", name)
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return &WriteError{Op: "drop container " + name, Err: err}
	}
	lgr.Printf("[INFO] container %s dropped", name)
	return nil
}

// tableColumn is a row of PRAGMA table_info
type tableColumn struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// containerInfo reads the description of a single container, nil if it doesn't exist
func (s *Store) containerInfo(ctx context.Context, name string) (*ContainerInfo, error) {
	var cols []tableColumn
	if err := s.db.SelectContext(ctx, &cols, "SELECT * FROM pragma_table_info(?)", name); err != nil {
		return nil, &ReadError{Op: "describe container " + name, Err: err}
	}
	if len(cols) == 0 {
		return nil, nil
	}

	info := &ContainerInfo{Name: name}
	for _, c := range cols {
		info.Columns = append(info.Columns, Column{Name: c.Name, Type: columnTypeOf(c.Type)})
		if c.PK > 0 {
			info.RowKey = true
		}
	}
	return info, nil
}

// withBusyTimeout adds a 5 second lock timeout to every pooled connection unless the DSN sets one
func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

func columnTypeOf(sqlType string) ColumnType {
	switch strings.ToUpper(sqlType) {
	case "INTEGER", "INT", "BIGINT":
		return TypeInteger
	case "TEXT", "VARCHAR", "STRING":
		return TypeString
	default:
		return ColumnType(strings.ToUpper(sqlType))
	}
}
