// Package repository persists snapshots of the record collections.
package repository

import (
	"context"
	"time"

	"github.com/courtevo/vero/internal/domain/model"
)

// Snapshot is the full state of the three collections at one point in time.
type Snapshot struct {
	Athletes  []model.Athlete
	Decisions []model.Decision
	Clubs     []model.Club
	SavedAt   time.Time
}

// Records returns the total number of records held by the snapshot.
func (s Snapshot) Records() int {
	return len(s.Athletes) + len(s.Decisions) + len(s.Clubs)
}

// Store loads and saves whole snapshots.
type Store interface {
	// Load returns the last saved snapshot. ok is false when nothing was saved yet.
	Load(ctx context.Context) (snap Snapshot, ok bool, err error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}
