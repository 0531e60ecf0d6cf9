// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package sqldb implements the sqlbind backend contract on top of a
// database/sql handle. It is the execution core shared by the concrete
// engine packages (backend/sqlite, backend/postgres, backend/mysql), which
// supply the driver and an [Options] value describing their dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pebblescale/sqlbind"
)

// Options tailor the shared core to one engine's dialect.
type Options struct {
	// TypeOverride implements the engine's ColumnType hook. A nil override
	// never overrides anything.
	TypeOverride sqlbind.ColumnTypeFunc

	// KeyQuery, when set, retrieves the generated key of an insert with a
	// follow-up query run inside the same transaction as the insert (e.g.
	// "SELECT lastval()" on Postgres). When empty the driver's
	// LastInsertId is used, taken from the very statement result so no
	// interleaved insert can race it.
	KeyQuery string
}

// DB runs compiled statements against a database/sql handle. It implements
// sqlbind.Backend and sqlbind.Transactor. A DB may be shared between
// sessions; all of its state is either immutable or behind the statement
// cache mutex.
type DB struct {
	db    *sql.DB
	opts  Options
	cache *stmtCache
}

// New wraps an open database/sql handle. The handle is owned by the
// returned DB: closing the DB closes it.
func New(db *sql.DB, opts Options) *DB {
	return &DB{db: db, opts: opts, cache: newStmtCache(db)}
}

// PlainDB returns the underlying database handle.
func (d *DB) PlainDB() *sql.DB { return d.db }

// Close closes the cached prepared statements and the underlying handle.
func (d *DB) Close() error {
	d.cache.close()
	return d.db.Close()
}

// Exec implements sqlbind.Backend. Statements are prepared once per SQL
// text and reused across calls.
func (d *DB) Exec(ctx context.Context, query string, params []sqlbind.Param) (int64, [][]sqlbind.Value, error) {
	stmt, err := d.cache.prepare(ctx, query)
	if err != nil {
		return 0, nil, &sqlbind.BackendError{Err: err}
	}
	args := sqlbind.Args(params)
	if !returnsRows(query) {
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, nil, &sqlbind.BackendError{Err: err}
		}
		// Not every driver can count rows for every statement; a count of
		// zero is all we can report then.
		n, err := res.RowsAffected()
		if err != nil {
			n = 0
		}
		return n, nil, nil
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return 0, nil, &sqlbind.BackendError{Err: err}
	}
	vals, err := ReadRows(rows)
	if err != nil {
		return 0, nil, &sqlbind.BackendError{Err: err}
	}
	return int64(len(vals)), vals, nil
}

// ExecReturningKey implements sqlbind.Backend. The default path takes the
// key from the insert's own statement result; the KeyQuery path wraps the
// insert and the key lookup in one transaction. Both keep the key atomic
// with respect to inserts on other connections.
func (d *DB) ExecReturningKey(ctx context.Context, query string, params []sqlbind.Param) (int64, error) {
	args := sqlbind.Args(params)
	if d.opts.KeyQuery != "" {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, &sqlbind.BackendError{Err: err}
		}
		key, err := keyQueryInsert(ctx, tx, query, args, d.opts.KeyQuery)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, &sqlbind.BackendError{Err: err}
		}
		return key, nil
	}
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &sqlbind.BackendError{Err: err}
	}
	return lastInsertKey(res)
}

// ColumnType implements sqlbind.Backend.
func (d *DB) ColumnType(kind sqlbind.Kind, attrs sqlbind.ColumnAttrs) (string, bool) {
	if d.opts.TypeOverride == nil {
		return "", false
	}
	return d.opts.TypeOverride(kind, attrs)
}

// Begin implements sqlbind.Transactor.
func (d *DB) Begin(ctx context.Context) (sqlbind.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &sqlbind.BackendError{Err: err}
	}
	return &Tx{tx: tx, opts: d.opts}, nil
}

// Tx is a transaction on a DB. Statements run on it are not cached: the
// transaction is short-lived and database/sql closes its statements with
// it.
type Tx struct {
	tx   *sql.Tx
	opts Options
}

// Exec implements sqlbind.Backend on the transaction.
func (t *Tx) Exec(ctx context.Context, query string, params []sqlbind.Param) (int64, [][]sqlbind.Value, error) {
	args := sqlbind.Args(params)
	if !returnsRows(query) {
		res, err := t.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, nil, &sqlbind.BackendError{Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = 0
		}
		return n, nil, nil
	}
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, nil, &sqlbind.BackendError{Err: err}
	}
	vals, err := ReadRows(rows)
	if err != nil {
		return 0, nil, &sqlbind.BackendError{Err: err}
	}
	return int64(len(vals)), vals, nil
}

// ExecReturningKey implements sqlbind.Backend on the transaction. The
// transaction itself makes the key retrieval atomic with the insert.
func (t *Tx) ExecReturningKey(ctx context.Context, query string, params []sqlbind.Param) (int64, error) {
	args := sqlbind.Args(params)
	if t.opts.KeyQuery != "" {
		return keyQueryInsert(ctx, t.tx, query, args, t.opts.KeyQuery)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &sqlbind.BackendError{Err: err}
	}
	return lastInsertKey(res)
}

// ColumnType implements sqlbind.Backend on the transaction.
func (t *Tx) ColumnType(kind sqlbind.Kind, attrs sqlbind.ColumnAttrs) (string, bool) {
	if t.opts.TypeOverride == nil {
		return "", false
	}
	return t.opts.TypeOverride(kind, attrs)
}

func (t *Tx) Commit() error { return t.tx.Commit() }

func (t *Tx) Rollback() error { return t.tx.Rollback() }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func keyQueryInsert(ctx context.Context, e execer, query string, args []any, keyQuery string) (int64, error) {
	if _, err := e.ExecContext(ctx, query, args...); err != nil {
		return 0, &sqlbind.BackendError{Err: err}
	}
	var key int64
	if err := e.QueryRowContext(ctx, keyQuery).Scan(&key); err != nil {
		return 0, sqlbind.ErrNoGeneratedKey
	}
	return key, nil
}

func lastInsertKey(res sql.Result) (int64, error) {
	key, err := res.LastInsertId()
	if err != nil || key == 0 {
		return 0, sqlbind.ErrNoGeneratedKey
	}
	return key, nil
}

// rowKeywords lead statements that produce a result set. The compiler
// hands backends plain SQL text, so dispatch between Query and Exec is by
// leading keyword.
var rowKeywords = []string{"SELECT", "WITH", "VALUES", "PRAGMA", "SHOW", "EXPLAIN"}

func returnsRows(query string) bool {
	q := strings.TrimSpace(query)
	for _, kw := range rowKeywords {
		if len(q) >= len(kw) && strings.EqualFold(q[:len(kw)], kw) {
			return true
		}
	}
	return false
}

// ReadRows drains rows into the closed sqlbind value set, preserving
// column order, and closes them.
func ReadRows(rows *sql.Rows) ([][]sqlbind.Value, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]sqlbind.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		vals := make([]sqlbind.Value, len(cols))
		for i, r := range raw {
			vals[i] = fromDriver(r)
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}

// fromDriver maps the driver.Value set onto the closed sqlbind kinds.
// Blob copies its bytes, which matters here: drivers may reuse the buffer
// on the next Scan.
func fromDriver(v any) sqlbind.Value {
	switch v := v.(type) {
	case nil:
		return sqlbind.Null()
	case int64:
		return sqlbind.Int64(v)
	case float64:
		return sqlbind.Float64(v)
	case bool:
		return sqlbind.Bool(v)
	case string:
		return sqlbind.Text(v)
	case time.Time:
		return sqlbind.Time(v)
	case []byte:
		return sqlbind.Blob(v)
	}
	return sqlbind.Text(fmt.Sprint(v))
}
