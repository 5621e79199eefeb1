package reports

import (
	"slices"

	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
)

// ReadinessTiers colours a readiness score.
var ReadinessTiers = derive.NewTiers("red",
	derive.Tier{Name: "green", Min: 80},
	derive.Tier{Name: "amber", Min: 60},
)

// ReadinessRow is the current readiness picture for one athlete.
type ReadinessRow struct {
	AthleteID string  `json:"athlete_id"`
	Name      string  `json:"name"`
	Squad     string  `json:"squad"`
	Readiness float64 `json:"readiness"`
	Trend     float64 `json:"trend"`
	Adherence float64 `json:"adherence"`
	Tier      string  `json:"tier"`
	Watchlist bool    `json:"watchlist"`
}

// SquadReadiness aggregates one squad.
type SquadReadiness struct {
	Squad      string  `json:"squad"`
	Athletes   int     `json:"athletes"`
	Readiness  float64 `json:"readiness"`
	Engagement float64 `json:"engagement"`
	Trust      float64 `json:"trust"`
	Adherence  float64 `json:"adherence"`
}

// ReadinessReport is the player and squad readiness dashboard.
type ReadinessReport struct {
	Rows      []ReadinessRow   `json:"rows"`
	Squads    []SquadReadiness `json:"squads"`
	Watchlist int              `json:"watchlist"`
	Average   float64          `json:"average"`
}

// Adherence returns completed/planned as a percentage, 0 when nothing was planned.
func Adherence(a model.Athlete) float64 {
	return derive.Percent(float64(a.SessionsCompleted), float64(a.SessionsPlanned))
}

type squadAcc struct {
	readiness, engagement, trust, adherence []float64
}

// Readiness builds per-athlete rows and per-squad averages.
func Readiness(athletes []model.Athlete) ReadinessReport {
	out := ReadinessReport{Rows: make([]ReadinessRow, 0, len(athletes))}

	squads := make(map[string]*squadAcc)
	all := make([]float64, 0, len(athletes))

	for _, a := range athletes {
		adherence := derive.Round(Adherence(a), 1)
		out.Rows = append(out.Rows, ReadinessRow{
			AthleteID: a.ID,
			Name:      a.Name,
			Squad:     a.Squad,
			Readiness: a.Readiness,
			Trend:     derive.TrendDelta(a.ReadinessHistory),
			Adherence: adherence,
			Tier:      ReadinessTiers.Classify(a.Readiness),
			Watchlist: a.Watchlist,
		})
		if a.Watchlist {
			out.Watchlist++
		}
		s, ok := squads[a.Squad]
		if !ok {
			s = &squadAcc{}
			squads[a.Squad] = s
		}
		s.readiness = append(s.readiness, a.Readiness)
		s.engagement = append(s.engagement, a.Engagement)
		s.trust = append(s.trust, a.Trust)
		s.adherence = append(s.adherence, adherence)
		all = append(all, a.Readiness)
	}

	names := make([]string, 0, len(squads))
	for name := range squads {
		names = append(names, name)
	}
	slices.Sort(names)

	out.Squads = make([]SquadReadiness, 0, len(names))
	for _, name := range names {
		s := squads[name]
		out.Squads = append(out.Squads, SquadReadiness{
			Squad:      name,
			Athletes:   len(s.readiness),
			Readiness:  derive.Round(derive.Average(s.readiness), 1),
			Engagement: derive.Round(derive.Average(s.engagement), 1),
			Trust:      derive.Round(derive.Average(s.trust), 1),
			Adherence:  derive.Round(derive.Average(s.adherence), 1),
		})
	}
	out.Average = derive.Round(derive.Average(all), 1)
	return out
}
