// Package model contains the record types held by the dashboard collections.
package model

import (
	"slices"
	"time"
)

// Athlete is a roster entry on the player dashboards.
type Athlete struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Squad    string `json:"squad"`
	Position string `json:"position"`
	Coach    string `json:"coach"`
	// BirthDate is kept as entered (YYYY-MM-DD); it may be empty or malformed.
	BirthDate string `json:"birth_date"`

	Readiness  float64 `json:"readiness"`
	Engagement float64 `json:"engagement"`
	Trust      float64 `json:"trust"`

	// ReadinessHistory holds one value per period, oldest first.
	ReadinessHistory []float64     `json:"readiness_history,omitempty"`
	HeightSamples    []HeightSample `json:"height_samples,omitempty"`

	SessionsPlanned   int `json:"sessions_planned"`
	SessionsCompleted int `json:"sessions_completed"`

	Watchlist bool      `json:"watchlist"`
	Notes     []Note    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HeightSample is one stature measurement.
type HeightSample struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Note is a free-text comment attached to a record.
type Note struct {
	At     time.Time `json:"at"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

// AthleteID returns the record key.
func AthleteID(a Athlete) string { return a.ID }

// WithAthleteID returns a copy of a carrying id.
func WithAthleteID(a Athlete, id string) Athlete {
	a.ID = id
	return a
}

// Clone returns a copy that shares no slice storage with a.
func (a Athlete) Clone() Athlete {
	a.ReadinessHistory = slices.Clone(a.ReadinessHistory)
	a.HeightSamples = slices.Clone(a.HeightSamples)
	a.Notes = slices.Clone(a.Notes)
	return a
}

// AthletePatch carries the fields of a partial athlete update. Nil fields are left untouched.
type AthletePatch struct {
	Name              *string        `json:"name,omitempty"`
	Squad             *string        `json:"squad,omitempty"`
	Position          *string        `json:"position,omitempty"`
	Coach             *string        `json:"coach,omitempty"`
	BirthDate         *string        `json:"birth_date,omitempty"`
	Readiness         *float64       `json:"readiness,omitempty"`
	Engagement        *float64       `json:"engagement,omitempty"`
	Trust             *float64       `json:"trust,omitempty"`
	SessionsPlanned   *int           `json:"sessions_planned,omitempty"`
	SessionsCompleted *int           `json:"sessions_completed,omitempty"`
	Watchlist         *bool          `json:"watchlist,omitempty"`
	ReadinessHistory  []float64      `json:"readiness_history,omitempty"`
	HeightSamples     []HeightSample `json:"height_samples,omitempty"`
}

// Apply returns a merged with the set fields of p.
func (p AthletePatch) Apply(a Athlete) Athlete {
	out := a.Clone()
	setIf(&out.Name, p.Name)
	setIf(&out.Squad, p.Squad)
	setIf(&out.Position, p.Position)
	setIf(&out.Coach, p.Coach)
	setIf(&out.BirthDate, p.BirthDate)
	setIf(&out.Readiness, p.Readiness)
	setIf(&out.Engagement, p.Engagement)
	setIf(&out.Trust, p.Trust)
	setIf(&out.SessionsPlanned, p.SessionsPlanned)
	setIf(&out.SessionsCompleted, p.SessionsCompleted)
	setIf(&out.Watchlist, p.Watchlist)
	if p.ReadinessHistory != nil {
		out.ReadinessHistory = slices.Clone(p.ReadinessHistory)
	}
	if p.HeightSamples != nil {
		out.HeightSamples = slices.Clone(p.HeightSamples)
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
