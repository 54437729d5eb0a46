package analysis

import (
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/music-analysis/internal/dataset"
)

// EventsFromTable reads the joined table into events. It fails with a
// dataset.SchemaError if a column the pipelines need is missing.
//
// A null user or genre becomes the empty string. A duration that isn't a
// number and a timestamp that isn't a time are treated as absent.
func EventsFromTable(t *dataset.Table) ([]EnrichedEvent, error) {
	if err := t.Require(UserIDColumn, SongIDColumn, GenreColumn, TimestampColumn, DurationColumn); err != nil {
		return nil, err
	}

	userIdx := t.ColumnIndex(UserIDColumn)
	songIdx := t.ColumnIndex(SongIDColumn)
	genreIdx := t.ColumnIndex(GenreColumn)
	tsIdx := t.ColumnIndex(TimestampColumn)
	durIdx := t.ColumnIndex(DurationColumn)

	events := make([]EnrichedEvent, 0, t.Len())
	for _, row := range t.Rows {
		e := EnrichedEvent{
			UserID: text(row[userIdx]),
			SongID: text(row[songIdx]),
			Genre:  text(row[genreIdx]),
		}
		if ts, ok := row[tsIdx].(time.Time); ok {
			e.Timestamp, e.HasTimestamp = ts, true
		}
		e.Duration, e.HasDuration = number(row[durIdx])

		for i, c := range t.Columns {
			switch i {
			case userIdx, songIdx, genreIdx, tsIdx, durIdx:
				continue
			}
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}
			e.Extra[c.Name] = row[i]
		}
		events = append(events, e)
	}
	return events, nil
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return dataset.Format(v)
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Period restricts events to [Start, End). A zero bound is open.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !t.Before(p.End) {
		return false
	}
	return true
}

// FilterPeriod returns the events inside p. Events without a timestamp are
// dropped unless p is zero, in which case events is returned unchanged.
func FilterPeriod(events []EnrichedEvent, p Period) []EnrichedEvent {
	if p.IsZero() {
		return events
	}
	var out []EnrichedEvent
	for _, e := range events {
		if e.HasTimestamp && p.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}
