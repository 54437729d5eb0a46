// Package dataset reads delimited text into typed, immutable tables.
package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Type is the inferred type of a column.
type Type int

const (
	StringType Type = iota
	IntegerType
	DoubleType
	BooleanType
	TimestampType
)

func (t Type) String() string {
	switch t {
	case IntegerType:
		return "integer"
	case DoubleType:
		return "double"
	case BooleanType:
		return "boolean"
	case TimestampType:
		return "timestamp"
	default:
		return "string"
	}
}

type Column struct {
	Name string
	Type Type
}

// Table is a named set of typed rows. Cells hold nil (null), int64, float64,
// bool, time.Time or string, matching the column's Type.
//
// Tables are never modified once built; the With* methods return copies.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Require returns a SchemaError naming the first column in names that the
// table lacks.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			return &SchemaError{Table: t.Name, Column: name}
		}
	}
	return nil
}

// WithTimestamp returns a copy of the table whose column col holds
// timestamps. Text that doesn't parse becomes null; integers and doubles are
// read as seconds since the Unix epoch.
func (t *Table) WithTimestamp(col string) (*Table, error) {
	return t.mapColumn(col, TimestampType, toTimestamp)
}

// WithText returns a copy of the table whose column col holds the textual
// form of its values. Join keys go through this so that 101 and "101" match.
func (t *Table) WithText(col string) (*Table, error) {
	return t.mapColumn(col, StringType, func(v any) any {
		if v == nil {
			return nil
		}
		return Format(v)
	})
}

func (t *Table) mapColumn(col string, typ Type, fn func(any) any) (*Table, error) {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return nil, &SchemaError{Table: t.Name, Column: col}
	}

	columns := make([]Column, len(t.Columns))
	copy(columns, t.Columns)
	columns[idx].Type = typ

	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(row))
		copy(r, row)
		r[idx] = fn(row[idx])
		rows[i] = r
	}
	return &Table{Name: t.Name, Columns: columns, Rows: rows}, nil
}

func toTimestamp(v any) any {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if ts, ok := parseTimestamp(v); ok {
			return ts
		}
		return nil
	case int64:
		return time.Unix(v, 0).UTC()
	case float64:
		sec := int64(v)
		return time.Unix(sec, int64((v-float64(sec))*1e9)).UTC()
	default:
		return nil
	}
}

// Format renders a cell the way previews print it. Null is "null".
func Format(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatDouble(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(timestampOutputLayout)
	default:
		return fmt.Sprint(v)
	}
}

const timestampOutputLayout = "2006-01-02 15:04:05"

// formatDouble always keeps a fractional part, so 210 prints as 210.0.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'N' || c == 'I' {
			return s
		}
	}
	return s + ".0"
}
