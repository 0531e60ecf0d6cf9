// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

// ConflictPolicy selects how a DDL statement reacts to the table already
// existing (create) or being absent (drop).
type ConflictPolicy uint8

const (
	// Fail makes the statement an error when the table exists/is absent.
	Fail ConflictPolicy = iota
	// Ignore makes the statement a no-op when the table exists/is absent.
	Ignore
)

func (p ConflictPolicy) String() string {
	if p == Ignore {
		return "ignore"
	}
	return "fail"
}

// Statement is a compiled statement: SQL text plus its ordered parameters.
// A Statement is produced by the external compiler for one operation and
// consumed exactly once by a backend.
type Statement struct {
	SQL    string
	Params []Param
}

// Query is an opaque typed query description owned by the external query
// layer. The only thing the core needs from it is the result shape used to
// decode returned rows.
type Query interface {
	Shape() ResultShape
}

// Predicate is an opaque row predicate owned by the external query layer.
// The core passes it through to the compiler untouched.
type Predicate interface{}

// Assignment is an opaque column assignment owned by the external query
// layer. The core passes it through to the compiler untouched.
type Assignment interface{}

// Compiler turns typed operation descriptions into statements. It is
// supplied by the embedding application together with the backend; the core
// marshals descriptions in and dispatches the compiled statement
// immediately, with no caching, batching or reordering.
type Compiler interface {
	CompileQuery(q Query) (*Statement, error)
	CompileInsert(table *Table, rows [][]Value) (*Statement, error)
	CompileUpdate(table *Table, set Assignment, where Predicate) (*Statement, error)
	CompileDelete(table *Table, where Predicate) (*Statement, error)
	CompileCreateTable(colType ColumnTypeFunc, policy ConflictPolicy, table *Table) (*Statement, error)
	CompileDropTable(policy ConflictPolicy, table *Table) (*Statement, error)
}
