package analysis

import "sort"

// byScoreDesc returns the indexes of scores ordered from highest score to
// lowest, keeping input order among equal scores.
func byScoreDesc(scores []int64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// competitionRanks ranks scores highest first. Equal scores share a rank and
// the next distinct score skips past the whole tie: 10, 7, 7, 3 ranks as
// 1, 2, 2, 4.
func competitionRanks(scores []int64) []int {
	ranks := make([]int, len(scores))
	order := byScoreDesc(scores)
	for pos, i := range order {
		if pos > 0 && scores[i] == scores[order[pos-1]] {
			ranks[i] = ranks[order[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}

// denseRanks ranks scores highest first. Equal scores share a rank and the
// next distinct score gets the next rank: 10, 7, 7, 3 ranks as 1, 2, 2, 3.
func denseRanks(scores []int64) []int {
	ranks := make([]int, len(scores))
	order := byScoreDesc(scores)
	rank := 0
	for pos, i := range order {
		if pos == 0 || scores[i] != scores[order[pos-1]] {
			rank++
		}
		ranks[i] = rank
	}
	return ranks
}
