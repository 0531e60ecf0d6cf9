// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"context"
	"fmt"
)

// Backend is the capability set a database engine must implement to be
// driven by a [Session]. Concrete engines are separate implementations
// selected at session creation time; the core references a backend for the
// duration of a session and never clones, pools or multiplexes it.
//
// A single Backend instance may be shared between sessions if the embedding
// application chooses to share it, so implementations must not corrupt
// results under concurrent use of the same instance.
type Backend interface {
	// Exec runs a compiled statement and returns the number of
	// affected/produced rows together with the full result set, each row in
	// compiled column order. Statements without a result set return a nil
	// row slice.
	Exec(ctx context.Context, query string, params []Param) (int64, [][]Value, error)

	// ExecReturningKey runs a single-row insert against a table with an
	// auto-incrementing primary key and returns the key the engine assigned.
	// Retrieval of the key must be atomic with the insert itself: an insert
	// interleaved on another connection must never be able to change the
	// answer. Implementations return [ErrNoGeneratedKey] when the engine
	// reports no key.
	ExecReturningKey(ctx context.Context, query string, params []Param) (int64, error)

	// ColumnType optionally overrides the DDL type string for the given
	// abstract column type and attributes. Returning ("", false) means no
	// override: the compiler falls back to its default mapping.
	ColumnType(kind Kind, attrs ColumnAttrs) (string, bool)
}

// ColumnTypeFunc is the shape of the [Backend.ColumnType] hook, passed to
// the DDL compilers so that engine overrides apply uniformly.
type ColumnTypeFunc func(kind Kind, attrs ColumnAttrs) (string, bool)

// Transactor is implemented by backends that support transactions. It is an
// optional capability, not part of the required contract; [Session.Transact]
// refuses backends that do not provide it.
type Transactor interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a transaction on a backend. It is itself a [Backend], so a nested
// session can be bound to it explicitly.
type Tx interface {
	Backend
	Commit() error
	Rollback() error
}

// BackendError carries a diagnostic from the underlying driver. The core
// does not interpret or retry these; they propagate to the caller verbatim.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return fmt.Sprintf("backend: %s", e.Err) }

func (e *BackendError) Unwrap() error { return e.Err }
