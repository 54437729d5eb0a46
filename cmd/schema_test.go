/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ademuri/music-analysis/internal/dataset"
)

func TestPrintSchemas(t *testing.T) {
	path := writeFile(t, t.TempDir(), "listens.csv", exampleListens)

	var out bytes.Buffer
	if err := printSchemas(&out, []string{path}); err != nil {
		t.Fatalf("printSchemas error: %v", err)
	}

	want := path + `:
root
 |-- user_id: string (nullable = true)
 |-- song_id: string (nullable = true)
 |-- timestamp: timestamp (nullable = true)
 |-- duration_sec: integer (nullable = true)

`
	if out.String() != want {
		t.Errorf("printSchemas output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestPrintSchemasMissingFile(t *testing.T) {
	err := printSchemas(&bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "nope.csv")})
	var ie *dataset.IngestionError
	if !errors.As(err, &ie) {
		t.Errorf("printSchemas error = %v, want an IngestionError", err)
	}
}

func TestSchemaCommand(t *testing.T) {
	dir := t.TempDir()
	listens := writeFile(t, dir, "a.csv", exampleListens)
	songs := writeFile(t, dir, "b.csv", exampleSongs)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"schema", listens, songs})
	defer rootCmd.SetOut(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	if got := strings.Count(out.String(), "root\n"); got != 2 {
		t.Errorf("schema printed %d schemas, want 2:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), " |-- genre: string (nullable = true)") {
		t.Errorf("schema output is missing genre:\n%s", out.String())
	}
}
