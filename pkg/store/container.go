package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
)

// ColumnType is the storage type of a container column
type ColumnType string

// supported column types
const (
	TypeInteger ColumnType = "INTEGER"
	TypeString  ColumnType = "TEXT"
)

// Column describes a single container column
type Column struct {
	Name string
	Type ColumnType
}

// ContainerInfo describes a container: its name, columns and whether the first column is the row key
type ContainerInfo struct {
	Name    string
	Columns []Column
	RowKey  bool
}

// NewsContainerInfo returns the description of a news container with (id INTEGER key, news TEXT) columns
func NewsContainerInfo(name string) ContainerInfo {
	return ContainerInfo{
		Name:    name,
		Columns: []Column{{Name: "id", Type: TypeInteger}, {Name: "news", Type: TypeString}},
		RowKey:  true,
	}
}

// Row is a single container row
type Row struct {
	ID   int64  `db:"id"`
	News string `db:"news"`
}

// Container is a handle to a keyed collection of rows
type Container struct {
	db   *sqlx.DB
	info ContainerInfo
}

// Info returns the container description
func (c *Container) Info() ContainerInfo {
	return c.info
}

// Put writes a row, replacing the text of an existing row with the same id
func (c *Container) Put(ctx context.Context, row Row) error {
	if _, err := c.db.ExecContext(ctx, c.upsertSQL(), row.ID, row.News); err != nil {
		return &WriteError{Op: fmt.Sprintf("put row %d into %s", row.ID, c.info.Name), Err: err}
	}
	return nil
}

// PutMany writes rows one by one. A failed row is logged and doesn't stop the rest;
// the result reports whether every row was written.
func (c *Container) PutMany(ctx context.Context, rows []Row) bool {
	ok := true
	for _, row := range rows {
		if err := c.Put(ctx, row); err != nil {
			lgr.Printf("[WARN] %v", err)
			ok = false
		}
	}
	return ok
}

// QueryAll returns all rows ordered by id
func (c *Container) QueryAll(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("%s ORDER BY %s", c.info.selectSQL(), quoteIdent(c.info.Columns[0].Name))
	res := []Row{}
	if err := c.db.SelectContext(ctx, &res, query); err != nil {
		return nil, &ReadError{Op: "query " + c.info.Name, Err: err}
	}
	return res, nil
}

// GetByID returns the row with the given id or ErrNotFound
func (c *Container) GetByID(ctx context.Context, id int64) (Row, error) {
	query := fmt.Sprintf("%s WHERE %s = ?", c.info.selectSQL(), quoteIdent(c.info.Columns[0].Name))
	var r Row
	if err := c.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, fmt.Errorf("row %d in %s: %w", id, c.info.Name, ErrNotFound)
		}
		return Row{}, &ReadError{Op: fmt.Sprintf("get row %d from %s", id, c.info.Name), Err: err}
	}
	return r, nil
}

// Count returns the number of rows in the container
func (c *Container) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+quoteIdent(c.info.Name)); err != nil {
		return 0, &ReadError{Op: "count " + c.info.Name, Err: err}
	}
	return count, nil
}

func (c *Container) upsertSQL() string {
	key, val := quoteIdent(c.info.Columns[0].Name), quoteIdent(c.info.Columns[1].Name)
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT(%s) DO UPDATE SET %s = excluded.%s",
		quoteIdent(c.info.Name), key, val, key, val, val)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validName(name string) bool {
	return identRe.MatchString(name)
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

// validate checks the container is a keyed collection of (INTEGER key, TEXT value)
func (ci ContainerInfo) validate() error {
	if !validName(ci.Name) {
		return fmt.Errorf("invalid container name %q", ci.Name)
	}
	if !ci.RowKey {
		return fmt.Errorf("container %s must have a row key", ci.Name)
	}
	if len(ci.Columns) != 2 {
		return fmt.Errorf("container %s must have 2 columns, got %d", ci.Name, len(ci.Columns))
	}
	for _, col := range ci.Columns {
		if !validName(col.Name) {
			return fmt.Errorf("invalid column name %q in container %s", col.Name, ci.Name)
		}
	}
	if ci.Columns[0].Type != TypeInteger || ci.Columns[1].Type != TypeString {
		return fmt.Errorf("container %s must have columns (INTEGER, TEXT), got %s", ci.Name, ci.columnsString())
	}
	return nil
}

// selectSQL reads key and value columns under the names Row is tagged with
func (ci ContainerInfo) selectSQL() string {
	return fmt.Sprintf("SELECT %s AS id, %s AS news FROM %s",
		quoteIdent(ci.Columns[0].Name), quoteIdent(ci.Columns[1].Name), quoteIdent(ci.Name))
}

func (ci ContainerInfo) createSQL() string {
	key, val := ci.Columns[0], ci.Columns[1]
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s %s PRIMARY KEY, %s %s NOT NULL)",
		quoteIdent(ci.Name), quoteIdent(key.Name), key.Type, quoteIdent(val.Name), val.Type)
}

func (ci ContainerInfo) sameColumns(other ContainerInfo) bool {
	if ci.RowKey != other.RowKey || len(ci.Columns) != len(other.Columns) {
		return false
	}
	for i := range ci.Columns {
		if !strings.EqualFold(ci.Columns[i].Name, other.Columns[i].Name) || ci.Columns[i].Type != other.Columns[i].Type {
			return false
		}
	}
	return true
}

func (ci ContainerInfo) columnsString() string {
	parts := make([]string, 0, len(ci.Columns))
	for _, col := range ci.Columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name, col.Type))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
