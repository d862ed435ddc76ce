// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/duckdb/duckdb-go/v2"

	"github.com/staranto/regctl/internal/backend"
)

// DriverName is the database/sql driver the table backend opens by default.
const DriverName = "duckdb"

// BackendTable stores every section in its own table.
type BackendTable struct {
	db     *sql.DB
	dsn    string
	prefix string
	owned  bool
}

// Option customizes a BackendTable.
type Option func(*BackendTable)

// WithTablePrefix prepends prefix to every section table name.
func WithTablePrefix(prefix string) Option {
	return func(be *BackendTable) { be.prefix = prefix }
}

// NewBackendTable wraps an open database handle. The caller keeps ownership
// of db.
func NewBackendTable(db *sql.DB, opts ...Option) (*BackendTable, error) {
	if db == nil {
		return nil, errors.New("table: db is nil")
	}
	be := &BackendTable{db: db}
	for _, opt := range opts {
		opt(be)
	}
	return be, nil
}

// Open opens dsn with the DuckDB driver, verifies the connection and returns a
// backend that closes the database on Close. An empty dsn opens an in-memory
// database.
func Open(ctx context.Context, dsn string, opts ...Option) (*BackendTable, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", DriverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", DriverName, err)
	}

	be, err := NewBackendTable(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	be.dsn = dsn
	be.owned = true
	return be, nil
}

// Close releases the database if the backend opened it.
func (be *BackendTable) Close() error {
	if !be.owned {
		return nil
	}
	return be.db.Close()
}

// Provision creates the section table if it does not exist yet.
func (be *BackendTable) Provision(ctx context.Context, section string) error {
	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s ("entityId" VARCHAR PRIMARY KEY, "data" VARCHAR)`,
		be.ident(section),
	)
	if _, err := be.exec(ctx, "provision", section, stmt); err != nil {
		return err
	}
	return nil
}

func (be *BackendTable) Fetch(ctx context.Context, section string, ids ...string) ([]backend.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT "entityId", "data" FROM %s WHERE "entityId" IN (%s)`,
		be.ident(section),
		strings.Join(placeholders, ", "),
	)
	return be.query(ctx, "fetch", section, query, args...)
}

func (be *BackendTable) FetchAll(ctx context.Context, section string) ([]backend.Record, error) {
	query := fmt.Sprintf(`SELECT "entityId", "data" FROM %s ORDER BY "entityId"`, be.ident(section))
	return be.query(ctx, "fetch", section, query)
}

func (be *BackendTable) Insert(ctx context.Context, section string, rec backend.Record) error {
	stmt := fmt.Sprintf(`INSERT INTO %s ("entityId", "data") VALUES (?, ?)`, be.ident(section))
	_, err := be.exec(ctx, "insert", section, stmt, rec.EntityID, string(rec.Data))
	return err
}

func (be *BackendTable) Update(ctx context.Context, section string, rec backend.Record) error {
	stmt := fmt.Sprintf(`UPDATE %s SET "data" = ? WHERE "entityId" = ?`, be.ident(section))
	res, err := be.exec(ctx, "update", section, stmt, string(rec.Data), rec.EntityID)
	if err != nil {
		return err
	}
	return be.expectRow(res, "update", section, rec.EntityID)
}

func (be *BackendTable) Delete(ctx context.Context, section string, id string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE "entityId" = ?`, be.ident(section))
	res, err := be.exec(ctx, "delete", section, stmt, id)
	if err != nil {
		return err
	}
	return be.expectRow(res, "delete", section, id)
}

func (be *BackendTable) Drop(ctx context.Context, section string) error {
	_, err := be.exec(ctx, "drop", section, fmt.Sprintf(`DROP TABLE %s`, be.ident(section)))
	return err
}

// Exists reports whether the section table is present.
func (be *BackendTable) Exists(ctx context.Context, section string) (bool, error) {
	var n int
	err := be.db.QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = ?`,
		be.tableName(section),
	).Scan(&n)
	if err != nil {
		return false, fail("exists", section, err)
	}
	return n > 0, nil
}

func (be *BackendTable) String() string {
	if be.dsn == "" {
		return "table:" + DriverName
	}
	return "table:" + be.dsn
}

func (be *BackendTable) tableName(section string) string {
	return be.prefix + section
}

// ident returns the section table name as a quoted SQL identifier.
func (be *BackendTable) ident(section string) string {
	return `"` + strings.ReplaceAll(be.tableName(section), `"`, `""`) + `"`
}

func (be *BackendTable) query(ctx context.Context, op, section, query string, args ...any) ([]backend.Record, error) {
	log.Debugf("%s: %s %v", op, query, args)

	rows, err := be.db.QueryContext(ctx, query, args...)
	if err != nil {
		// A section without a table reads as empty.
		if ok, xerr := be.Exists(ctx, section); xerr == nil && !ok {
			log.Debugf("%s: table for section %s does not exist", op, section)
			return nil, nil
		}
		return nil, fail(op, section, err)
	}
	defer rows.Close()

	var recs []backend.Record
	for rows.Next() {
		var (
			id   string
			data sql.NullString
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fail(op, section, err)
		}
		recs = append(recs, backend.Record{EntityID: id, Data: []byte(data.String)})
	}
	if err := rows.Err(); err != nil {
		return nil, fail(op, section, err)
	}
	return recs, nil
}

func (be *BackendTable) exec(ctx context.Context, op, section, stmt string, args ...any) (sql.Result, error) {
	log.Debugf("%s: %s", op, stmt)

	res, err := be.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fail(op, section, err)
	}
	return res, nil
}

func (be *BackendTable) expectRow(res sql.Result, op, section, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fail(op, section, err)
	}
	if n == 0 {
		return &backend.QueryError{
			Op:      op,
			Section: section,
			Message: fmt.Sprintf("entity %q not found", id),
			Err:     backend.ErrNotFound,
		}
	}
	return nil
}

// fail converts a driver error into a QueryError. DuckDB errors carry their
// error type as the native code.
func fail(op, section string, err error) error {
	qe := &backend.QueryError{Op: op, Section: section, Message: err.Error(), Err: err}
	var de *duckdb.Error
	if errors.As(err, &de) {
		qe.Code = int(de.Type)
		qe.Message = de.Msg
	}
	return qe
}
