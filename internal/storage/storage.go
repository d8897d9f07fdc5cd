// Package storage archives build results in SQLite for the report commands.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

// Every statement in schema.sql is idempotent (CREATE ... IF NOT EXISTS),
// so Open can run against an existing archive.
//
//go:embed schema.sql
var schema string

// DB is a handle on the build archive.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the archive at path and ensures the schema is in
// place. The DSN turns on foreign-key enforcement and WAL journaling.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
