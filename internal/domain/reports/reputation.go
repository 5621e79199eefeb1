package reports

import (
	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
)

// ReputationRow is the scored view of one club.
type ReputationRow struct {
	ClubID  string  `json:"club_id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Tier    string  `json:"tier"`
	Rank    int     `json:"rank"`
	Members int     `json:"members"`
}

// ReputationReport ranks clubs by weighted category score.
type ReputationReport struct {
	Rows    []ReputationRow `json:"rows"`
	Average float64         `json:"average"`
}

// ReputationTiers returns the gold/amber/risk classifier for the given cutoffs.
func ReputationTiers(gold, amber float64) derive.Tiers {
	return derive.NewTiers("risk",
		derive.Tier{Name: "gold", Min: gold},
		derive.Tier{Name: "amber", Min: amber},
	)
}

// ClubScore returns the weighted sum of c's categories. A weight in
// overrides replaces the stored weight of the category with that name.
func ClubScore(c model.Club, overrides map[string]float64) float64 {
	items := make([]derive.Weighted, len(c.Categories))
	for i, cat := range c.Categories {
		w := cat.Weight
		if ow, ok := overrides[cat.Name]; ok {
			w = ow
		}
		items[i] = derive.Weighted{Score: cat.Score, Weight: w}
	}
	return derive.WeightedSum(items)
}

// Reputation scores, classifies and ranks clubs. Rows are ordered by rank.
// Tiers and ranks use the unrounded score; only the reported value is rounded.
func Reputation(clubs []model.Club, overrides map[string]float64, tiers derive.Tiers) ReputationReport {
	entries := make([]derive.Ranked, len(clubs))
	byID := make(map[string]model.Club, len(clubs))
	scores := make([]float64, len(clubs))
	for i, c := range clubs {
		score := ClubScore(c, overrides)
		entries[i] = derive.Ranked{Key: c.ID, Score: score}
		byID[c.ID] = c
		scores[i] = score
	}

	ranked := derive.RankWithTies(entries)
	out := ReputationReport{Rows: make([]ReputationRow, 0, len(ranked))}
	for _, r := range ranked {
		c := byID[r.Key]
		out.Rows = append(out.Rows, ReputationRow{
			ClubID:  c.ID,
			Name:    c.Name,
			Score:   derive.Round(r.Score, 1),
			Tier:    tiers.Classify(r.Score),
			Rank:    r.Rank,
			Members: c.Members(),
		})
	}
	out.Average = derive.Round(derive.Average(scores), 1)
	return out
}
