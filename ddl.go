// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import "context"

// CreateTable creates the table, failing if it already exists. The active
// backend's column type overrides are applied during compilation.
func (s *Session) CreateTable(ctx context.Context, table *Table) error {
	return s.createTable(ctx, table, Fail)
}

// TryCreateTable creates the table if it does not already exist. Creating
// an existing table is not an error.
func (s *Session) TryCreateTable(ctx context.Context, table *Table) error {
	return s.createTable(ctx, table, Ignore)
}

// DropTable drops the table, failing if it does not exist.
func (s *Session) DropTable(ctx context.Context, table *Table) error {
	return s.dropTable(ctx, table, Fail)
}

// TryDropTable drops the table if it exists. Dropping an absent table is
// not an error.
func (s *Session) TryDropTable(ctx context.Context, table *Table) error {
	return s.dropTable(ctx, table, Ignore)
}

func (s *Session) createTable(ctx context.Context, table *Table, policy ConflictPolicy) error {
	be, compiler, err := s.resolve()
	if err != nil {
		return err
	}
	stmt, err := compiler.CompileCreateTable(be.ColumnType, policy, table)
	if err != nil {
		return err
	}
	_, _, err = be.Exec(ctx, stmt.SQL, stmt.Params)
	return err
}

func (s *Session) dropTable(ctx context.Context, table *Table, policy ConflictPolicy) error {
	be, compiler, err := s.resolve()
	if err != nil {
		return err
	}
	stmt, err := compiler.CompileDropTable(policy, table)
	if err != nil {
		return err
	}
	_, _, err = be.Exec(ctx, stmt.SQL, stmt.Params)
	return err
}
