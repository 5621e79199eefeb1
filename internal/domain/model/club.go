package model

import (
	"maps"
	"slices"
	"time"
)

// Club is a club or squad aggregate with scored categories.
type Club struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Categories   []Category     `json:"categories"`
	Demographics map[string]int `json:"demographics,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Category is one scored dimension of a club.
type Category struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// ClubID returns the record key.
func ClubID(c Club) string { return c.ID }

// WithClubID returns a copy of c carrying id.
func WithClubID(c Club, id string) Club {
	c.ID = id
	return c
}

// Clone returns a copy that shares no slice or map storage with c.
func (c Club) Clone() Club {
	c.Categories = slices.Clone(c.Categories)
	c.Demographics = maps.Clone(c.Demographics)
	return c
}

// Members sums the demographic counts.
func (c Club) Members() int {
	total := 0
	for _, n := range c.Demographics {
		total += n
	}
	return total
}

// ClubPatch carries the fields of a partial club update.
type ClubPatch struct {
	Name         *string        `json:"name,omitempty"`
	Categories   []Category     `json:"categories,omitempty"`
	Demographics map[string]int `json:"demographics,omitempty"`
}

// Apply returns c merged with the set fields of p.
func (p ClubPatch) Apply(c Club) Club {
	out := c.Clone()
	setIf(&out.Name, p.Name)
	if p.Categories != nil {
		out.Categories = slices.Clone(p.Categories)
	}
	if p.Demographics != nil {
		out.Demographics = maps.Clone(p.Demographics)
	}
	return out
}
