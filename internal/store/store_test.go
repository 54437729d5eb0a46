package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/music-analysis/internal/dataset"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()

	store, err := New(MemoryDSN)
	if err != nil {
		t.Fatalf("New(%s) error: %v", MemoryDSN, err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func readTable(t *testing.T, name, csv string) *dataset.Table {
	t.Helper()
	table, err := dataset.ReadCSV(name, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV(%s) error: %v", name, err)
	}
	return table
}

func TestLoadReplacesTable(t *testing.T) {
	s := createTestDb(t)
	ctx := context.Background()

	songs := readTable(t, "songs", "song_id,genre\nsongA,pop\nsongB,rock\n")
	if err := s.Load(ctx, songs); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	// Loading again starts from scratch rather than appending.
	if err := s.Load(ctx, songs); err != nil {
		t.Fatalf("Load (repeat) error: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM "songs"`).Scan(&count); err != nil {
		t.Fatalf("querying count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 songs, got %d", count)
	}
}

func TestJoin(t *testing.T) {
	s := createTestDb(t)
	ctx := context.Background()

	listens := readTable(t, "listening_logs", `user_id,song_id,timestamp,duration_sec
u1,songA,2024-01-01 02:00:00,120
u1,songB,2024-01-01 10:00:00,300
u2,songX,2024-01-01 03:00:00,50
u3,,2024-01-01 04:00:00,60
`)
	songs := readTable(t, "songs_metadata", `song_id,genre,title
songA,pop,First
songB,pop,Second
songC,jazz,Unplayed
`)
	for _, table := range []*dataset.Table{listens, songs} {
		if err := s.Load(ctx, table); err != nil {
			t.Fatalf("Load(%s) error: %v", table.Name, err)
		}
	}

	joined, err := s.Join(ctx, listens, songs, "song_id")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}

	wantColumns := []string{"song_id", "user_id", "timestamp", "duration_sec", "genre", "title"}
	if len(joined.Columns) != len(wantColumns) {
		t.Fatalf("got columns %+v, want %v", joined.Columns, wantColumns)
	}
	for i, name := range wantColumns {
		if joined.Columns[i].Name != name {
			t.Errorf("column %d = %q, want %q", i, joined.Columns[i].Name, name)
		}
	}

	// songX has no metadata, songC has no listens, and a null key never matches.
	if joined.Len() != 2 {
		t.Fatalf("got %d joined rows, want 2", joined.Len())
	}

	listenBySong := map[string][]any{}
	for _, row := range listens.Rows {
		if id, ok := row[1].(string); ok {
			listenBySong[id] = row
		}
	}
	songByID := map[string][]any{}
	for _, row := range songs.Rows {
		songByID[row[0].(string)] = row
	}
	for _, row := range joined.Rows {
		id := row[0].(string)
		l, ok := listenBySong[id]
		if !ok {
			t.Fatalf("joined song_id %q not in listens", id)
		}
		m, ok := songByID[id]
		if !ok {
			t.Fatalf("joined song_id %q not in songs", id)
		}
		if row[1] != l[0] || row[4] != m[1] || row[5] != m[2] {
			t.Errorf("joined row %v doesn't match sources %v / %v", row, l, m)
		}
		ts, ok := row[2].(time.Time)
		if !ok || !ts.Equal(l[2].(time.Time)) {
			t.Errorf("timestamp = %#v, want %v", row[2], l[2])
		}
		if row[3] != l[3] {
			t.Errorf("duration_sec = %#v, want %#v", row[3], l[3])
		}
	}
}

func TestJoinNoMatches(t *testing.T) {
	s := createTestDb(t)
	ctx := context.Background()

	listens := readTable(t, "listens", "user_id,song_id\nu1,a\n")
	songs := readTable(t, "songs", "song_id,genre\nb,pop\n")
	s.Load(ctx, listens)
	s.Load(ctx, songs)

	joined, err := s.Join(ctx, listens, songs, "song_id")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if joined.Len() != 0 {
		t.Errorf("got %d rows, want 0", joined.Len())
	}
}

func TestJoinMissingKey(t *testing.T) {
	s := createTestDb(t)

	listens := readTable(t, "listens", "user_id,track\nu1,a\n")
	songs := readTable(t, "songs", "song_id,genre\nb,pop\n")

	_, err := s.Join(context.Background(), listens, songs, "song_id")
	var se *dataset.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Join error = %v, want SchemaError", err)
	}
	if se.Table != "listens" {
		t.Errorf("SchemaError.Table = %q, want listens", se.Table)
	}
}

func TestJoinUnloadedTable(t *testing.T) {
	s := createTestDb(t)

	listens := readTable(t, "listens", "user_id,song_id\nu1,a\n")
	songs := readTable(t, "songs", "song_id,genre\na,pop\n")

	_, err := s.Join(context.Background(), listens, songs, "song_id")
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("Join error = %v, want EngineError", err)
	}
}

func TestFileDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}
	defer s.Close()

	table := &dataset.Table{
		Name: "flags",
		Columns: []dataset.Column{
			{Name: "id", Type: dataset.StringType},
			{Name: "on", Type: dataset.BooleanType},
			{Name: "score", Type: dataset.DoubleType},
		},
		Rows: [][]any{{"a", true, 1.5}, {"b", false, nil}},
	}
	other := &dataset.Table{
		Name:    "names",
		Columns: []dataset.Column{{Name: "id", Type: dataset.StringType}},
		Rows:    [][]any{{"a"}, {"b"}},
	}
	for _, tbl := range []*dataset.Table{table, other} {
		if err := s.Load(context.Background(), tbl); err != nil {
			t.Fatalf("Load(%s) error: %v", tbl.Name, err)
		}
	}

	joined, err := s.Join(context.Background(), other, table, "id")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}
	if joined.Len() != 2 {
		t.Fatalf("got %d rows, want 2", joined.Len())
	}
	for _, row := range joined.Rows {
		switch row[0] {
		case "a":
			if row[1] != true || row[2] != 1.5 {
				t.Errorf("row a = %v", row)
			}
		case "b":
			if row[1] != false || row[2] != nil {
				t.Errorf("row b = %v", row)
			}
		}
	}
}

func TestIsBusy(t *testing.T) {
	if isBusy(errors.New("boom")) {
		t.Error("isBusy(plain error) = true")
	}
}
