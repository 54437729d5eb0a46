package dataset

import "fmt"

// IngestionError reports an input that could not be read: a missing file,
// undecodable bytes, or a malformed header or row.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingesting %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// SchemaError reports a column that a stage needs but the table lacks.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q has no column %q", e.Table, e.Column)
}
