// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

// ColumnAttrs are the modifiers attached to a table column. They travel
// with the abstract column type into [Backend.ColumnType] and the DDL
// compilers.
type ColumnAttrs struct {
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Indexed       bool
}

// Column describes one column of a table: its name, its abstract type and
// its attributes.
type Column struct {
	Name  string
	Type  Kind
	Attrs ColumnAttrs
}

// Table describes a database table. It is consumed by the insert and DDL
// compilers; the core attaches no runtime SQL semantics to it.
type Table struct {
	Name    string
	Columns []Column
}

// AutoKeyColumn returns the auto-incrementing primary key column of the
// table, if it has one.
func (t *Table) AutoKeyColumn() (Column, bool) {
	for _, c := range t.Columns {
		if c.Attrs.PrimaryKey && c.Attrs.AutoIncrement {
			return c, true
		}
	}
	return Column{}, false
}
