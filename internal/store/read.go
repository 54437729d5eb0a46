package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ademuri/music-analysis/internal/dataset"
)

// Join returns the inner equijoin of two loaded tables on key. The result
// holds the key once, then the rest of left's columns, then the rest of
// right's. Rows whose key is null or unmatched on the other side are
// dropped; no matches at all gives an empty table.
func (s *Store) Join(ctx context.Context, left, right *dataset.Table, key string) (*dataset.Table, error) {
	if err := left.Require(key); err != nil {
		return nil, err
	}
	if err := right.Require(key); err != nil {
		return nil, err
	}

	keyCol := left.Columns[left.ColumnIndex(key)]
	columns := []dataset.Column{keyCol}
	selects := []string{"l." + quote(key)}
	for _, c := range left.Columns {
		if c.Name != key {
			columns = append(columns, c)
			selects = append(selects, "l."+quote(c.Name))
		}
	}
	for _, c := range right.Columns {
		if c.Name != key {
			columns = append(columns, c)
			selects = append(selects, "r."+quote(c.Name))
		}
	}

	query := fmt.Sprintf(`
	SELECT %s
	FROM %s AS l
	INNER JOIN %s AS r ON r.%s = l.%s
	`, strings.Join(selects, ", "), quote(left.Name), quote(right.Name), quote(key), quote(key))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &EngineError{Op: fmt.Sprintf("joining %q and %q", left.Name, right.Name), Err: err}
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &EngineError{Op: "scanning joined row", Err: err}
		}

		row := make([]any, len(columns))
		for i, v := range values {
			row[i], err = fromSQL(v, columns[i].Type)
			if err != nil {
				return nil, &EngineError{Op: fmt.Sprintf("reading column %q", columns[i].Name), Err: err}
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &EngineError{Op: "reading joined rows", Err: err}
	}

	return &dataset.Table{
		Name:    left.Name + "_" + right.Name,
		Columns: columns,
		Rows:    out,
	}, nil
}

func fromSQL(v any, typ dataset.Type) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil, nil
	}

	switch typ {
	case dataset.IntegerType:
		if f, ok := v.(float64); ok {
			return int64(f), nil
		}
	case dataset.DoubleType:
		if n, ok := v.(int64); ok {
			return float64(n), nil
		}
	case dataset.BooleanType:
		if n, ok := v.(int64); ok {
			return n != 0, nil
		}
	case dataset.TimestampType:
		if s, ok := v.(string); ok {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
			}
			return t, nil
		}
	case dataset.StringType:
		if _, ok := v.(string); !ok {
			return dataset.Format(v), nil
		}
	}
	return v, nil
}
