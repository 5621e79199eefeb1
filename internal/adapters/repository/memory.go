package repository

import (
	"context"
	"sync"

	"github.com/courtevo/vero/internal/domain/model"
)

// MemoryStore keeps the last snapshot in process. It is used when no
// snapshot path is configured and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	snap   Snapshot
	saved  bool
	closed bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Snapshot{}, false, ErrClosed
	}
	return cloneSnapshot(m.snap), m.saved, nil
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.snap = cloneSnapshot(snap)
	m.saved = true
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{SavedAt: s.SavedAt}
	if s.Athletes != nil {
		out.Athletes = make([]model.Athlete, len(s.Athletes))
		for i, a := range s.Athletes {
			out.Athletes[i] = a.Clone()
		}
	}
	if s.Decisions != nil {
		out.Decisions = make([]model.Decision, len(s.Decisions))
		for i, d := range s.Decisions {
			out.Decisions[i] = d.Clone()
		}
	}
	if s.Clubs != nil {
		out.Clubs = make([]model.Club, len(s.Clubs))
		for i, c := range s.Clubs {
			out.Clubs[i] = c.Clone()
		}
	}
	return out
}
