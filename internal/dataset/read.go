package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile reads a CSV file with a header row. Files ending in .gz or .zst
// are decompressed first. The table is named after the file, minus its
// extensions.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IngestionError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &IngestionError{Path: path, Err: fmt.Errorf("opening gzip stream: %w", err)}
		}
		defer gz.Close()
		r = gz
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, &IngestionError{Path: path, Err: fmt.Errorf("opening zstd stream: %w", err)}
		}
		defer zr.Close()
		r = zr
	}

	table, err := ReadCSV(tableName(path), r)
	if err != nil {
		var ie *IngestionError
		if errors.As(err, &ie) {
			ie.Path = path
			return nil, ie
		}
		return nil, &IngestionError{Path: path, Err: err}
	}
	return table, nil
}

// ReadCSV reads comma-separated text whose first record names the columns,
// and infers a type for each column from its values. A leading byte order
// mark is dropped.
func ReadCSV(name string, r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &IngestionError{Path: name, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &IngestionError{Path: name, Err: fmt.Errorf("reading header: %w", err)}
	}
	if err := checkHeader(header); err != nil {
		return nil, &IngestionError{Path: name, Err: err}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &IngestionError{Path: name, Err: fmt.Errorf("reading rows: %w", err)}
	}

	types := inferTypes(len(header), records)
	columns := make([]Column, len(header))
	for i, h := range header {
		columns[i] = Column{Name: strings.TrimSpace(h), Type: types[i]}
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = convert(cell, types[j])
		}
		rows[i] = row
	}

	return &Table{Name: name, Columns: columns, Rows: rows}, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return fmt.Errorf("header column %d has no name", i+1)
		}
		if seen[h] {
			return fmt.Errorf("header names column %q twice", h)
		}
		seen[h] = true
	}
	return nil
}

func tableName(path string) string {
	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
