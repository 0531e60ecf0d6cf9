// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package postgres provides a sqlbind backend for PostgreSQL, driven
// through the pgx database/sql shim.
package postgres

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pebblescale/sqlbind"
	"github.com/pebblescale/sqlbind/backend/sqldb"
)

// Open connects to the database described by dsn (a postgres:// URL or a
// key=value DSN).
func Open(dsn string) (*sqldb.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already open pgx stdlib handle.
func New(db *sql.DB) *sqldb.DB {
	return sqldb.New(db, sqldb.Options{
		TypeOverride: columnType,
		// pgx has no LastInsertId; lastval() inside the insert's own
		// transaction yields the key assigned by that insert and no other.
		KeyQuery: "SELECT lastval()",
	})
}

func columnType(kind sqlbind.Kind, attrs sqlbind.ColumnAttrs) (string, bool) {
	if attrs.PrimaryKey && attrs.AutoIncrement {
		return "BIGSERIAL PRIMARY KEY", true
	}
	switch kind {
	case sqlbind.KindBlob:
		return "BYTEA", true
	case sqlbind.KindTime:
		return "TIMESTAMPTZ", true
	}
	return "", false
}
