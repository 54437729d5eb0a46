package analysis

import "sort"

// Late night is [LateNightStartHour, LateNightEndHour) in the timestamp's own
// zone.
const (
	LateNightStartHour = 0
	LateNightEndHour   = 5
)

// AverageListenTimes returns each user's mean duration over the events that
// have one, ordered by user.
func AverageListenTimes(events []EnrichedEvent) []AverageListen {
	type acc struct {
		sum float64
		n   int
	}
	byUser := make(map[string]*acc)
	for _, e := range events {
		a, ok := byUser[e.UserID]
		if !ok {
			a = &acc{}
			byUser[e.UserID] = a
		}
		if e.HasDuration {
			a.sum += e.Duration
			a.n++
		}
	}

	out := make([]AverageListen, 0, len(byUser))
	for user, a := range byUser {
		row := AverageListen{UserID: user}
		if a.n > 0 {
			avg := a.sum / float64(a.n)
			row.AvgDuration = &avg
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out
}

// LateNightUsers returns, once each and ordered, the users with at least one
// event whose hour falls in the late-night window. Events without a
// timestamp never count.
func LateNightUsers(events []EnrichedEvent) []LateNightUser {
	seen := make(map[string]bool)
	var out []LateNightUser
	for _, e := range events {
		if !e.HasTimestamp || seen[e.UserID] {
			continue
		}
		if h := e.Timestamp.Hour(); h >= LateNightStartHour && h < LateNightEndHour {
			seen[e.UserID] = true
			out = append(out, LateNightUser{UserID: e.UserID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out
}
