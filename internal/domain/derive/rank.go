package derive

import (
	"sort"
)

// Ranked is a scored key with its position.
type Ranked struct {
	Rank  int     `json:"rank"`
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// RankWithTies orders entries by score desc, then key asc, and assigns
// consecutive ranks where equal scores share a rank.
func RankWithTies(entries []Ranked) []Ranked {
	out := make([]Ranked, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})

	currentRank := 0
	for i := range out {
		if i == 0 || out[i].Score != out[i-1].Score {
			currentRank++
		}
		out[i].Rank = currentRank
	}
	return out
}
