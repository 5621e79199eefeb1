package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/pkg/logger"
)

// Dataset is one generated batch of demo records.
type Dataset struct {
	Seed      uint64                 `json:"seed"`
	Athletes  []Item[model.Athlete]  `json:"athletes"`
	Decisions []Item[model.Decision] `json:"decisions"`
	Clubs     []Item[model.Club]     `json:"clubs"`
}

// Len returns the number of records in d.
func (d Dataset) Len() int {
	return len(d.Athletes) + len(d.Decisions) + len(d.Clubs)
}

// Generate builds a deterministic dataset from config.Seed.
func Generate(ctx context.Context, config *Config) Dataset {
	g := generator{
		rng:    rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
		seed:   config.Seed,
		season: config.Season,
	}
	if g.season == 0 {
		g.season = time.Now().Year()
	}

	d := Dataset{
		Seed:      config.Seed,
		Athletes:  make([]Item[model.Athlete], config.Athletes),
		Decisions: make([]Item[model.Decision], config.Decisions),
		Clubs:     make([]Item[model.Club], config.Clubs),
	}
	for i := range d.Athletes {
		d.Athletes[i] = Item[model.Athlete]{Key: g.key("athlete", i), Record: g.athlete()}
	}
	for i := range d.Decisions {
		d.Decisions[i] = Item[model.Decision]{Key: g.key("decision", i), Record: g.decision()}
	}
	for i := range d.Clubs {
		d.Clubs[i] = Item[model.Club]{Key: g.key("club", i), Record: g.club(i)}
	}

	logger.Get().Info(ctx, "generated dataset",
		logger.Int("athletes", len(d.Athletes)),
		logger.Int("decisions", len(d.Decisions)),
		logger.Int("clubs", len(d.Clubs)),
		logger.Any("seed", config.Seed))
	return d
}

type generator struct {
	rng    *rand.Rand
	seed   uint64
	season int
}

// key derives a stable idempotency key so a rerun with the same seed replays.
func (g *generator) key(kind string, i int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "vero-seed/%d/%s/%d", g.seed, kind, i)).String()
}

func (g *generator) pick(from []string) string {
	return from[g.rng.IntN(len(from))]
}

func (g *generator) between(lo, hi float64) float64 {
	return derive.Round(lo+g.rng.Float64()*(hi-lo), 1)
}

func (g *generator) athlete() model.Athlete {
	squad := g.pick(squads)
	a := model.Athlete{
		Name:       g.pick(firsts) + " " + g.pick(lasts),
		Squad:      squad,
		Position:   g.pick(positions),
		Coach:      g.pick(coaches),
		BirthDate:  g.birthDate(squad),
		Engagement: g.between(40, 100),
		Trust:      g.between(40, 100),
	}

	base := g.between(45, 95)
	a.ReadinessHistory = make([]float64, historyLength)
	for i := range a.ReadinessHistory {
		a.ReadinessHistory[i] = derive.Clamp(derive.Round(base+g.between(-12, 12), 1), 0, 100)
	}
	a.Readiness = a.ReadinessHistory[historyLength-1]

	a.SessionsPlanned = 12 + g.rng.IntN(9)
	a.SessionsCompleted = a.SessionsPlanned - g.rng.IntN(a.SessionsPlanned/2+1)

	first := g.between(140, 185)
	velocity := g.between(2, 11)
	a.HeightSamples = []model.HeightSample{
		{Date: fmt.Sprintf("%d-01-15", g.season), Value: first},
		{Date: fmt.Sprintf("%d-%02d-15", g.season, 1+heightSampleMonths), Value: derive.Round(first+velocity*heightSampleMonths/12, 1)},
	}

	a.Watchlist = a.Readiness < 55
	return a
}

// birthDate skews months toward the start of the year, as selected rosters do.
func (g *generator) birthDate(squad string) string {
	if g.rng.Float64() < unknownBirthDateShare {
		return ""
	}
	var age int
	_, _ = fmt.Sscanf(squad, "U%d", &age)
	month := 1 + int(g.rng.Float64()*g.rng.Float64()*12)
	day := 1 + g.rng.IntN(28)
	return fmt.Sprintf("%d-%02d-%02d", g.season-age+1, month, day)
}

func (g *generator) decision() model.Decision {
	statuses := []model.Status{model.StatusPlanned, model.StatusInProgress, model.StatusDone}
	due := time.Date(g.season, time.Month(1+g.rng.IntN(12)), 1+g.rng.IntN(28), 0, 0, 0, 0, time.UTC)
	return model.Decision{
		What:   g.pick(decisionTemplates),
		Why:    "season planning",
		Who:    g.pick(coaches),
		Status: statuses[g.rng.IntN(len(statuses))],
		Due:    &due,
	}
}

func (g *generator) club(i int) model.Club {
	c := model.Club{
		Name:       clubNames[i%len(clubNames)],
		Categories: make([]model.Category, len(clubCategories)),
		Demographics: map[string]int{
			"boys":  20 + g.rng.IntN(60),
			"girls": 20 + g.rng.IntN(60),
		},
	}
	if i >= len(clubNames) {
		c.Name = fmt.Sprintf("%s %d", c.Name, i/len(clubNames)+1)
	}
	for j, cat := range clubCategories {
		c.Categories[j] = model.Category{Name: cat.name, Score: g.between(50, 100), Weight: cat.weight}
	}
	return c
}
