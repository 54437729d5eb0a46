// Package store holds the engine session: an SQLite database that the input
// tables are loaded into and joined in.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the whole session in memory; nothing outlives Close.
const MemoryDSN = ":memory:"

type Store struct {
	db *sql.DB
}

// New opens a session. An empty dsn means MemoryDSN.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &EngineError{Op: "opening database", Err: err}
	}

	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &EngineError{Op: "opening database", Err: err}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EngineError wraps any failure reported by the database.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// isBusy reports whether err is SQLite refusing access because another
// connection holds a lock on a file database.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
