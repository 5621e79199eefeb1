// Package derive holds the pure functions that turn a record snapshot into
// display values: weighted scores, date buckets, tiers, trends and rates.
//
// Nothing here validates its input. Empty collections and unparseable
// dates fall back to zero values or the Unknown bucket; NaN inputs
// propagate unless a function documents otherwise.
package derive

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Unknown is the bucket assigned to missing or unparseable dates.
const Unknown = "-"

// dateLayouts are tried in order when parsing record dates.
var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006/01/02", "02/01/2006"}

// ParseDate parses a record date. The boolean is false for empty or malformed input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Weighted is one (score, weight) pair.
type Weighted struct {
	Score  float64
	Weight float64
}

// WeightedSum returns Σ score·weight. Weights are not normalised.
func WeightedSum(items []Weighted) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Score * it.Weight
	}
	return total
}

// WeightTotal returns Σ weight, for callers that want to normalise.
func WeightTotal(items []Weighted) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Weight
	}
	return total
}

// Quarter maps a date to its calendar quarter, "Q1".."Q4", or Unknown.
func Quarter(date string) string {
	t, ok := ParseDate(date)
	if !ok {
		return Unknown
	}
	return quarterLabels[(int(t.Month())-1)/3]
}

var quarterLabels = [4]string{"Q1", "Q2", "Q3", "Q4"}

// QuarterLabels returns the four quarter buckets in order.
func QuarterLabels() []string { return quarterLabels[:] }

// CountByBucket groups records by group(record) and counts bucket(record)
// within each group.
func CountByBucket[T any](items []T, group, bucket func(T) string) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, it := range items {
		g := group(it)
		counts, ok := out[g]
		if !ok {
			counts = make(map[string]int)
			out[g] = counts
		}
		counts[bucket(it)]++
	}
	return out
}

// Tier is one band of a classifier.
type Tier struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
}

// Tiers classifies scores against ordered cutoffs. A score at a cutoff
// belongs to that tier (inclusive lower bound).
type Tiers struct {
	bands    []Tier
	fallback string
}

// NewTiers builds a classifier. Bands may be given in any order; scores
// below every band get fallback.
func NewTiers(fallback string, bands ...Tier) Tiers {
	sorted := slices.Clone(bands)
	slices.SortFunc(sorted, func(a, b Tier) int {
		switch {
		case a.Min > b.Min:
			return -1
		case a.Min < b.Min:
			return 1
		}
		return 0
	})
	return Tiers{bands: sorted, fallback: fallback}
}

// Classify returns the tier name for score. NaN classifies as the fallback.
func (t Tiers) Classify(score float64) string {
	for _, b := range t.bands {
		if score >= b.Min {
			return b.Name
		}
	}
	return t.fallback
}

// TrendDelta returns last − secondToLast, or 0 with fewer than two points.
func TrendDelta(seq []float64) float64 {
	if len(seq) < 2 {
		return 0
	}
	return seq[len(seq)-1] - seq[len(seq)-2]
}

// Sample is one dated measurement.
type Sample struct {
	Date  string
	Value float64
}

// AnnualRate extrapolates a per-year rate from the last two samples:
// (Δvalue / Δmonths) · 12. It returns 0 with fewer than two samples, when
// both fall in the same month, or when either date cannot be parsed.
func AnnualRate(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	prev, last := samples[len(samples)-2], samples[len(samples)-1]
	t0, ok0 := ParseDate(prev.Date)
	t1, ok1 := ParseDate(last.Date)
	if !ok0 || !ok1 {
		return 0
	}
	months := (t1.Year()-t0.Year())*12 + int(t1.Month()) - int(t0.Month())
	if months == 0 {
		return 0
	}
	return (last.Value - prev.Value) / float64(months) * 12
}

// Average returns the mean of the non-NaN values, or 0 when there are none.
func Average(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Percent returns part/whole·100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Percentile returns the share (0–100) of values strictly below v.
func Percentile(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	below := 0
	for _, x := range values {
		if x < v {
			below++
		}
	}
	return Percent(float64(below), float64(len(values)))
}
