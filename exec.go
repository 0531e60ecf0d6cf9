// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoGeneratedKey is returned when the backend reports no generated key
// for an insert that was expected to produce one.
var ErrNoGeneratedKey = errors.New("backend returned no generated key")

// ErrMultiRowKey is returned when a generated key is requested for an
// insert of more than one row. Which key such an insert should return is
// undefined, so the core refuses it before the backend is reached.
var ErrMultiRowKey = errors.New("cannot return a generated key for a multi-row insert")

// Query compiles q, runs it on the session's backend and decodes every
// returned row against the result shape declared by q. Rows come back in
// whatever order the backend produced them.
func (s *Session) Query(ctx context.Context, q Query) ([]Row, error) {
	be, compiler, err := s.resolve()
	if err != nil {
		return nil, err
	}
	stmt, err := compiler.CompileQuery(q)
	if err != nil {
		return nil, err
	}
	_, raw, err := be.Exec(ctx, stmt.SQL, stmt.Params)
	if err != nil {
		return nil, err
	}
	shape := q.Shape()
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		row, err := decodeRow(shape, r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Insert inserts the given rows into the table and returns the number of
// rows inserted. An empty batch is a no-op: it returns 0 without contacting
// the compiler or the backend, since there is no valid SQL for an insert of
// nothing.
func (s *Session) Insert(ctx context.Context, table *Table, rows [][]Value) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	be, compiler, err := s.resolve()
	if err != nil {
		return 0, err
	}
	stmt, err := compiler.CompileInsert(table, rows)
	if err != nil {
		return 0, err
	}
	n, _, err := be.Exec(ctx, stmt.SQL, stmt.Params)
	return n, err
}

// InsertWithKey inserts exactly one row into a table with an
// auto-incrementing primary key and returns the key the engine assigned to
// it. Multi-row batches fail with [ErrMultiRowKey] and tables without an
// auto-incrementing key are refused before anything is compiled.
func (s *Session) InsertWithKey(ctx context.Context, table *Table, rows [][]Value) (int64, error) {
	if len(rows) != 1 {
		return 0, ErrMultiRowKey
	}
	if _, ok := table.AutoKeyColumn(); !ok {
		return 0, fmt.Errorf("cannot insert with key: table %q has no auto-incrementing primary key", table.Name)
	}
	be, compiler, err := s.resolve()
	if err != nil {
		return 0, err
	}
	stmt, err := compiler.CompileInsert(table, rows)
	if err != nil {
		return 0, err
	}
	return be.ExecReturningKey(ctx, stmt.SQL, stmt.Params)
}

// Update applies the assignment to every row of the table matching the
// predicate and returns the number of rows updated.
func (s *Session) Update(ctx context.Context, table *Table, set Assignment, where Predicate) (int64, error) {
	be, compiler, err := s.resolve()
	if err != nil {
		return 0, err
	}
	stmt, err := compiler.CompileUpdate(table, set, where)
	if err != nil {
		return 0, err
	}
	n, _, err := be.Exec(ctx, stmt.SQL, stmt.Params)
	return n, err
}

// Delete removes every row of the table matching the predicate and returns
// the number of rows deleted.
func (s *Session) Delete(ctx context.Context, table *Table, where Predicate) (int64, error) {
	be, compiler, err := s.resolve()
	if err != nil {
		return 0, err
	}
	stmt, err := compiler.CompileDelete(table, where)
	if err != nil {
		return 0, err
	}
	n, _, err := be.Exec(ctx, stmt.SQL, stmt.Params)
	return n, err
}
