// Copyright 2024 Pebblescale Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package mysql provides a sqlbind backend for MySQL and MariaDB.
package mysql

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/pebblescale/sqlbind"
	"github.com/pebblescale/sqlbind/backend/sqldb"
)

// Open connects to the database described by dsn. ParseTime is forced on
// so that timestamps come back as time.Time rather than byte slices.
func Open(dsn string) (*sqldb.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already open mysql handle.
func New(db *sql.DB) *sqldb.DB {
	return sqldb.New(db, sqldb.Options{TypeOverride: columnType})
}

func columnType(kind sqlbind.Kind, attrs sqlbind.ColumnAttrs) (string, bool) {
	if attrs.PrimaryKey && attrs.AutoIncrement {
		return "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY", true
	}
	// TEXT columns cannot be keys in MySQL without a prefix length.
	if kind == sqlbind.KindText && (attrs.PrimaryKey || attrs.Unique || attrs.Indexed) {
		return "VARCHAR(255)", true
	}
	if kind == sqlbind.KindTime {
		return "DATETIME(6)", true
	}
	return "", false
}
