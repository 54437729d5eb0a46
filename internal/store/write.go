package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/ademuri/music-analysis/internal/dataset"
)

// Load replaces the table named t.Name with the contents of t, inside one
// transaction. If another process holds a lock on a file database the load
// is retried a few times before giving up.
func (s *Store) Load(ctx context.Context, t *dataset.Table) error {
	return retry.Do(
		func() error {
			return s.load(ctx, t)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
}

func (s *Store) load(ctx context.Context, t *dataset.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &EngineError{Op: "beginning transaction", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(t.Name)); err != nil {
		return &EngineError{Op: fmt.Sprintf("dropping table %q", t.Name), Err: err}
	}
	if _, err := tx.ExecContext(ctx, createTableQuery(t)); err != nil {
		return &EngineError{Op: fmt.Sprintf("creating table %q", t.Name), Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(t))
	if err != nil {
		return &EngineError{Op: fmt.Sprintf("preparing insert into %q", t.Name), Err: err}
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			args[j] = toSQL(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return &EngineError{Op: fmt.Sprintf("inserting row %d into %q", i+1, t.Name), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &EngineError{Op: "committing transaction", Err: err}
	}
	return nil
}

func createTableQuery(t *dataset.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quote(c.Name) + " " + sqlType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(t.Name), strings.Join(defs, ",\n  "))
}

func insertQuery(t *dataset.Table) string {
	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quote(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// Timestamps are kept as RFC 3339 text rather than a DATETIME column so that
// the driver hands back exactly what was stored, offset included.
func sqlType(t dataset.Type) string {
	switch t {
	case dataset.IntegerType, dataset.BooleanType:
		return "INTEGER"
	case dataset.DoubleType:
		return "REAL"
	default:
		return "TEXT"
	}
}

func toSQL(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}
