// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package ansi is a deliberately small sqlbind.Compiler used by the demos
// and the test suites. Real embeddings bring their own query layer; this
// one covers plain selects, value inserts, raw predicates and table DDL,
// generating ANSI-ish SQL with ? placeholders.
package ansi

import (
	"fmt"
	"strings"

	"github.com/pebblescale/sqlbind"
)

// Compiler compiles the description types of this package.
type Compiler struct{}

func New() *Compiler { return &Compiler{} }

// Select describes "SELECT <all columns> FROM <table> [WHERE <cond>]". It
// implements sqlbind.Query; its shape is the table's column list.
type Select struct {
	Table *sqlbind.Table
	Where *Where
}

// Shape implements sqlbind.Query.
func (q Select) Shape() sqlbind.ResultShape {
	shape := make(sqlbind.ResultShape, 0, len(q.Table.Columns))
	for _, c := range q.Table.Columns {
		shape = append(shape, sqlbind.ResultCol{Kind: c.Type, Nullable: c.Attrs.Nullable})
	}
	return shape
}

// Where is a raw predicate: a condition with ? placeholders and the values
// bound to them, left to right.
type Where struct {
	Cond string
	Args []sqlbind.Value
}

// Set is a raw assignment list: an expression with ? placeholders and the
// values bound to them, left to right.
type Set struct {
	Expr string
	Args []sqlbind.Value
}

// CompileQuery implements sqlbind.Compiler.
func (c *Compiler) CompileQuery(q sqlbind.Query) (*sqlbind.Statement, error) {
	sel, ok := q.(Select)
	if !ok {
		return nil, fmt.Errorf("cannot compile query of type %T", q)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(columnNames(sel.Table), ", "), sel.Table.Name)
	params := appendWhere(&b, sel.Where, nil)
	return &sqlbind.Statement{SQL: b.String(), Params: params}, nil
}

// CompileInsert implements sqlbind.Compiler. Auto-incrementing key columns
// are left to the engine and excluded from the column list.
func (c *Compiler) CompileInsert(table *sqlbind.Table, rows [][]sqlbind.Value) (*sqlbind.Statement, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot compile an insert of zero rows")
	}
	cols := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col.Attrs.PrimaryKey && col.Attrs.AutoIncrement {
			continue
		}
		cols = append(cols, col.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table.Name, strings.Join(cols, ", "))
	var params []sqlbind.Param
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("cannot compile insert: row %d has %d values, table %q takes %d", i, len(row), table.Name, len(cols))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, v := range row {
			params = append(params, sqlbind.Bind(len(params)+1, v))
		}
	}
	return &sqlbind.Statement{SQL: b.String(), Params: params}, nil
}

// CompileUpdate implements sqlbind.Compiler.
func (c *Compiler) CompileUpdate(table *sqlbind.Table, set sqlbind.Assignment, where sqlbind.Predicate) (*sqlbind.Statement, error) {
	s, ok := set.(Set)
	if !ok {
		return nil, fmt.Errorf("cannot compile assignment of type %T", set)
	}
	w, err := asWhere(where)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", table.Name, s.Expr)
	params := make([]sqlbind.Param, 0, len(s.Args))
	for _, v := range s.Args {
		params = append(params, sqlbind.Bind(len(params)+1, v))
	}
	params = appendWhere(&b, w, params)
	return &sqlbind.Statement{SQL: b.String(), Params: params}, nil
}

// CompileDelete implements sqlbind.Compiler.
func (c *Compiler) CompileDelete(table *sqlbind.Table, where sqlbind.Predicate) (*sqlbind.Statement, error) {
	w, err := asWhere(where)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", table.Name)
	params := appendWhere(&b, w, nil)
	return &sqlbind.Statement{SQL: b.String(), Params: params}, nil
}

// CompileCreateTable implements sqlbind.Compiler. The backend's colType
// hook wins over the default mapping; an override replaces the whole
// column definition after the name, attributes included.
func (c *Compiler) CompileCreateTable(colType sqlbind.ColumnTypeFunc, policy sqlbind.ConflictPolicy, table *sqlbind.Table) (*sqlbind.Statement, error) {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if policy == sqlbind.Ignore {
		b.WriteString("IF NOT EXISTS ")
	}
	fmt.Fprintf(&b, "%s (", table.Name)
	for i, col := range table.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Name)
		b.WriteByte(' ')
		if colType != nil {
			if override, ok := colType(col.Type, col.Attrs); ok {
				b.WriteString(override)
				continue
			}
		}
		b.WriteString(defaultType(col.Type))
		if !col.Attrs.Nullable {
			b.WriteString(" NOT NULL")
		}
		if col.Attrs.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.Attrs.Unique {
			b.WriteString(" UNIQUE")
		}
	}
	b.WriteByte(')')
	return &sqlbind.Statement{SQL: b.String()}, nil
}

// CompileDropTable implements sqlbind.Compiler.
func (c *Compiler) CompileDropTable(policy sqlbind.ConflictPolicy, table *sqlbind.Table) (*sqlbind.Statement, error) {
	var b strings.Builder
	b.WriteString("DROP TABLE ")
	if policy == sqlbind.Ignore {
		b.WriteString("IF EXISTS ")
	}
	b.WriteString(table.Name)
	return &sqlbind.Statement{SQL: b.String()}, nil
}

func columnNames(table *sqlbind.Table) []string {
	names := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		names = append(names, col.Name)
	}
	return names
}

func asWhere(p sqlbind.Predicate) (*Where, error) {
	switch p := p.(type) {
	case nil:
		return nil, nil
	case Where:
		return &p, nil
	case *Where:
		return p, nil
	}
	return nil, fmt.Errorf("cannot compile predicate of type %T", p)
}

// appendWhere writes the WHERE clause, binds its values after the params
// already collected and returns the extended param list.
func appendWhere(b *strings.Builder, w *Where, params []sqlbind.Param) []sqlbind.Param {
	if w == nil {
		return params
	}
	fmt.Fprintf(b, " WHERE %s", w.Cond)
	for _, v := range w.Args {
		params = append(params, sqlbind.Bind(len(params)+1, v))
	}
	return params
}

func defaultType(k sqlbind.Kind) string {
	switch k {
	case sqlbind.KindInt:
		return "BIGINT"
	case sqlbind.KindFloat:
		return "DOUBLE PRECISION"
	case sqlbind.KindBool:
		return "BOOLEAN"
	case sqlbind.KindTime:
		return "TIMESTAMP"
	case sqlbind.KindBlob:
		return "BLOB"
	}
	return "TEXT"
}
