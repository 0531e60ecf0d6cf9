// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package sqlite provides a sqlbind backend for SQLite databases. dqlite
// nodes speak the same dialect, so a handle opened through go-dqlite can be
// wrapped with [New] unchanged.
package sqlite

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pebblescale/sqlbind"
	"github.com/pebblescale/sqlbind/backend/sqldb"
)

// Open opens the SQLite database at path. Use ":memory:" for a transient
// in-memory database.
func Open(path string) (*sqldb.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already open handle, e.g. one obtained from a dqlite app.
func New(db *sql.DB) *sqldb.DB {
	return sqldb.New(db, sqldb.Options{TypeOverride: columnType})
}

// columnType overrides the default DDL type mapping. SQLite only assigns
// rowid keys to INTEGER PRIMARY KEY columns, so the auto-key case must not
// use the default bigint mapping.
func columnType(kind sqlbind.Kind, attrs sqlbind.ColumnAttrs) (string, bool) {
	if attrs.PrimaryKey && attrs.AutoIncrement {
		return "INTEGER PRIMARY KEY AUTOINCREMENT", true
	}
	return "", false
}
