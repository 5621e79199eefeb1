package reports

import (
	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
)

// PHV stages.
const (
	StagePeak        = "peak"
	StageApproaching = "approaching"
	StageStable      = "stable"
)

// PHVTiers classifies annual growth velocity (cm/yr) into maturation stages.
var PHVTiers = derive.NewTiers(StageStable,
	derive.Tier{Name: StagePeak, Min: 7},
	derive.Tier{Name: StageApproaching, Min: 5},
)

// GrowthRow is the growth projection for one athlete.
type GrowthRow struct {
	AthleteID string  `json:"athlete_id"`
	Name      string  `json:"name"`
	Squad     string  `json:"squad"`
	Height    float64 `json:"height"`
	Velocity  float64 `json:"velocity"`
	Stage     string  `json:"stage"`
	Samples   int     `json:"samples"`
}

// GrowthReport lists growth rows plus stage counts.
type GrowthReport struct {
	Rows   []GrowthRow    `json:"rows"`
	Stages map[string]int `json:"stages"`
}

// Growth projects annual growth velocity from each athlete's last two height samples.
func Growth(athletes []model.Athlete) GrowthReport {
	out := GrowthReport{
		Rows:   make([]GrowthRow, 0, len(athletes)),
		Stages: map[string]int{StagePeak: 0, StageApproaching: 0, StageStable: 0},
	}
	for _, a := range athletes {
		samples := make([]derive.Sample, len(a.HeightSamples))
		for i, h := range a.HeightSamples {
			samples[i] = derive.Sample{Date: h.Date, Value: h.Value}
		}
		row := GrowthRow{
			AthleteID: a.ID,
			Name:      a.Name,
			Squad:     a.Squad,
			Samples:   len(samples),
		}
		if n := len(samples); n > 0 {
			row.Height = samples[n-1].Value
		}
		velocity := derive.AnnualRate(samples)
		row.Velocity = derive.Round(velocity, 1)
		row.Stage = PHVTiers.Classify(velocity)
		out.Stages[row.Stage]++
		out.Rows = append(out.Rows, row)
	}
	return out
}
