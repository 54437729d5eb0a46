package analysis

import "time"

// Columns the pipelines read from the joined table.
const (
	UserIDColumn    = "user_id"
	SongIDColumn    = "song_id"
	GenreColumn     = "genre"
	TimestampColumn = "timestamp"
	DurationColumn  = "duration_sec"
)

// EnrichedEvent is one listening event joined with its song's metadata.
type EnrichedEvent struct {
	UserID string
	SongID string
	Genre  string

	Timestamp    time.Time
	HasTimestamp bool

	Duration    float64
	HasDuration bool

	// Every other column from either input, keyed by column name.
	Extra map[string]any
}

// Results holds the output of all four pipelines.
type Results struct {
	FavoriteGenres     []FavoriteGenre `yaml:"favorite_genres"`
	AverageListenTimes []AverageListen `yaml:"average_listen_time"`
	GenreLoyalty       []GenreLoyalty  `yaml:"genre_loyalty"`
	LateNightUsers     []LateNightUser `yaml:"late_night_users"`
}

type FavoriteGenre struct {
	UserID string `yaml:"user_id"`
	Genre  string `yaml:"genre"`
	Count  int64  `yaml:"count"`
}

// AverageListen is a user's mean duration. AvgDuration is nil when none of
// the user's events had a duration.
type AverageListen struct {
	UserID      string   `yaml:"user_id"`
	AvgDuration *float64 `yaml:"avg_duration"`
}

type GenreLoyalty struct {
	UserID       string `yaml:"user_id"`
	Genre        string `yaml:"genre"`
	LoyaltyScore int64  `yaml:"loyalty_score"`
	Rank         int    `yaml:"rank"`
}

type LateNightUser struct {
	UserID string `yaml:"user_id"`
}
