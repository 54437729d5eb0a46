package analysis

import "sort"

// LoyaltyLimit is the deepest dense rank TopGenreLoyalty keeps.
const LoyaltyLimit = 10

type genreCount struct {
	UserID string
	Genre  string
	Count  int64
}

// countGenres counts events per (user, genre), sorted by user then genre.
func countGenres(events []EnrichedEvent) []genreCount {
	type key struct{ user, genre string }
	counts := make(map[key]int64)
	for _, e := range events {
		counts[key{e.UserID, e.Genre}]++
	}

	out := make([]genreCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, genreCount{UserID: k.user, Genre: k.genre, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// FavoriteGenres returns, for every user, the genre they listened to most.
// Genres are ranked per user with competition ranking and every genre at
// rank 1 is kept, so a user with tied genres appears once per tied genre.
func FavoriteGenres(events []EnrichedEvent) []FavoriteGenre {
	counts := countGenres(events)

	var out []FavoriteGenre
	for start := 0; start < len(counts); {
		end := start
		for end < len(counts) && counts[end].UserID == counts[start].UserID {
			end++
		}

		user := counts[start:end]
		scores := make([]int64, len(user))
		for i, c := range user {
			scores[i] = c.Count
		}
		for i, rank := range competitionRanks(scores) {
			if rank == 1 {
				out = append(out, FavoriteGenre(user[i]))
			}
		}
		start = end
	}
	return out
}

// TopGenreLoyalty scores every (user, genre) pair by its number of events,
// ranks all pairs together with dense ranking and keeps ranks up to
// LoyaltyLimit. Rows are ordered by rank, then user, then genre.
func TopGenreLoyalty(events []EnrichedEvent) []GenreLoyalty {
	counts := countGenres(events)
	scores := make([]int64, len(counts))
	for i, c := range counts {
		scores[i] = c.Count
	}
	ranks := denseRanks(scores)

	var out []GenreLoyalty
	for i, c := range counts {
		if ranks[i] > LoyaltyLimit {
			continue
		}
		out = append(out, GenreLoyalty{
			UserID:       c.UserID,
			Genre:        c.Genre,
			LoyaltyScore: c.Count,
			Rank:         ranks[i],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out
}
