// Package reports builds the per-dashboard summaries from a record snapshot.
// Every builder is a pure function of its inputs and is re-run on each read.
package reports

import (
	"slices"

	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
)

// GroupBy selects the athlete field a relative-age report is grouped on.
type GroupBy string

// Supported groupings.
const (
	GroupByCoach GroupBy = "coach"
	GroupBySquad GroupBy = "squad"
)

// ParseGroupBy returns the grouping for s, defaulting to coach.
func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(s) {
	case "", GroupByCoach:
		return GroupByCoach, true
	case GroupBySquad:
		return GroupBySquad, true
	}
	return "", false
}

func (g GroupBy) key(a model.Athlete) string {
	if g == GroupBySquad {
		return a.Squad
	}
	return a.Coach
}

// RelativeAgeRow is the birth-quarter distribution of one group.
type RelativeAgeRow struct {
	Group    string         `json:"group"`
	Quarters map[string]int `json:"quarters"`
	Unknown  int            `json:"unknown"`
	Total    int            `json:"total"`
	// Bias is the percentage of known birth dates falling in Q1 or Q2.
	Bias float64 `json:"bias"`
}

// RelativeAgeReport summarises birth-quarter clustering.
type RelativeAgeReport struct {
	GroupBy GroupBy          `json:"group_by"`
	Rows    []RelativeAgeRow `json:"rows"`
	Overall RelativeAgeRow   `json:"overall"`
}

// RelativeAge counts athletes per birth quarter within each group.
func RelativeAge(athletes []model.Athlete, by GroupBy) RelativeAgeReport {
	byQuarter := func(a model.Athlete) string { return derive.Quarter(a.BirthDate) }
	counts := derive.CountByBucket(athletes, by.key, byQuarter)
	all := derive.CountByBucket(athletes, func(model.Athlete) string { return "" }, byQuarter)

	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	slices.Sort(groups)

	out := RelativeAgeReport{GroupBy: by, Rows: make([]RelativeAgeRow, 0, len(groups))}
	for _, g := range groups {
		out.Rows = append(out.Rows, relativeAgeRow(g, counts[g]))
	}
	out.Overall = relativeAgeRow("all", all[""])
	return out
}

func relativeAgeRow(group string, buckets map[string]int) RelativeAgeRow {
	row := RelativeAgeRow{Group: group, Quarters: make(map[string]int, 4)}
	known := 0
	for _, q := range derive.QuarterLabels() {
		row.Quarters[q] = buckets[q]
		known += buckets[q]
	}
	row.Unknown = buckets[derive.Unknown]
	row.Total = known + row.Unknown
	row.Bias = derive.Round(derive.Percent(float64(buckets["Q1"]+buckets["Q2"]), float64(known)), 1)
	return row
}
