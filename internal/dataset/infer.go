package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried, in order, when reading a timestamp. Values without an
// offset are taken as UTC wall clock time.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// cellType is the narrowest type a single non-empty cell fits.
func cellType(s string) Type {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerType
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return DoubleType
	}
	if _, ok := parseTimestamp(s); ok {
		return TimestampType
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return BooleanType
	}
	return StringType
}

// widen merges the type seen so far with the type of the next cell.
// Integers widen to doubles; any other disagreement falls back to string.
func widen(a, b Type) Type {
	switch {
	case a == b:
		return a
	case (a == IntegerType && b == DoubleType) || (a == DoubleType && b == IntegerType):
		return DoubleType
	default:
		return StringType
	}
}

// inferTypes picks a type for every column from the non-empty cells under it.
// A column with no values at all is a string column.
func inferTypes(width int, records [][]string) []Type {
	types := make([]Type, width)
	seen := make([]bool, width)
	for _, rec := range records {
		for i, cell := range rec {
			if cell == "" {
				continue
			}
			ct := cellType(cell)
			if !seen[i] {
				types[i], seen[i] = ct, true
				continue
			}
			if types[i] != StringType {
				types[i] = widen(types[i], ct)
			}
		}
	}
	return types
}

// convert turns a raw cell into the Go value for typ. Empty cells, and
// cells that don't fit (which inference rules out), are null.
func convert(cell string, typ Type) any {
	if cell == "" {
		return nil
	}
	s := strings.TrimSpace(cell)
	switch typ {
	case IntegerType:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case DoubleType:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	case BooleanType:
		return strings.EqualFold(s, "true")
	case TimestampType:
		if v, ok := parseTimestamp(s); ok {
			return v
		}
	default:
		return cell
	}
	return nil
}
