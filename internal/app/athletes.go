package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/pkg/logger"
)

// ListAthletes returns the roster in insertion order.
func (s *Service) ListAthletes(_ context.Context) []model.Athlete {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.athletes.Items()
}

// ListAthletesWhere returns the athletes for which keep returns true.
func (s *Service) ListAthletesWhere(_ context.Context, keep func(model.Athlete) bool) []model.Athlete {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.athletes.Filter(keep)
}

// GetAthlete returns the athlete with id.
func (s *Service) GetAthlete(_ context.Context, id string) (model.Athlete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.athletes.Get(id)
	if !ok {
		return model.Athlete{}, fmt.Errorf("%w: athlete %s", ErrNotFound, id)
	}
	return a, nil
}

// AddAthlete appends a to the roster with a fresh id.
func (s *Service) AddAthlete(ctx context.Context, a model.Athlete) (model.Athlete, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		s.recordMutation(collectionAthletes, "add", ErrInvalid)
		return model.Athlete{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a = a.Clone()
	a.CreatedAt = s.now()
	next, added := s.athletes.Add(a)
	s.athletes = next
	s.recordMutation(collectionAthletes, "add", nil)
	s.updateCountsLocked()

	s.logger.Debug(ctx, "athlete added", logger.String("id", added.ID), logger.String("squad", added.Squad))
	return added, nil
}

// UpdateAthlete merges patch into the athlete with id.
func (s *Service) UpdateAthlete(ctx context.Context, id string, patch model.AthletePatch) (model.Athlete, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		s.recordMutation(collectionAthletes, "update", ErrInvalid)
		return model.Athlete{}, fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	return s.mutateAthlete(ctx, "update", id, patch.Apply)
}

// RemoveAthlete deletes the athlete with id.
func (s *Service) RemoveAthlete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.athletes.Remove(id)
	if !ok {
		s.recordMutation(collectionAthletes, "remove", ErrNotFound)
		return fmt.Errorf("%w: athlete %s", ErrNotFound, id)
	}
	s.athletes = next
	s.recordMutation(collectionAthletes, "remove", nil)
	s.updateCountsLocked()
	s.logger.Debug(ctx, "athlete removed", logger.String("id", id))
	return nil
}

// ToggleWatchlist flips the watchlist flag of the athlete with id.
func (s *Service) ToggleWatchlist(ctx context.Context, id string) (model.Athlete, error) {
	return s.mutateAthlete(ctx, "watchlist", id, func(a model.Athlete) model.Athlete {
		a.Watchlist = !a.Watchlist
		return a
	})
}

// AddNote attaches a note to the athlete with id.
func (s *Service) AddNote(ctx context.Context, id, author, text string) (model.Athlete, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.recordMutation(collectionAthletes, "note", ErrInvalid)
		return model.Athlete{}, fmt.Errorf("%w: note text is required", ErrInvalid)
	}
	at := s.now()
	return s.mutateAthlete(ctx, "note", id, func(a model.Athlete) model.Athlete {
		a = a.Clone()
		a.Notes = append(a.Notes, model.Note{At: at, Author: author, Text: text})
		return a
	})
}

// AddHeightSample records a stature measurement. The date must parse so the
// growth projection can use it. Samples are kept in date order, so a
// back-dated measurement lands before later ones.
func (s *Service) AddHeightSample(ctx context.Context, id string, sample model.HeightSample) (model.Athlete, error) {
	if _, ok := derive.ParseDate(sample.Date); !ok {
		s.recordMutation(collectionAthletes, "height", ErrInvalid)
		return model.Athlete{}, fmt.Errorf("%w: height date %q", ErrInvalid, sample.Date)
	}
	if sample.Value <= 0 {
		s.recordMutation(collectionAthletes, "height", ErrInvalid)
		return model.Athlete{}, fmt.Errorf("%w: height must be positive", ErrInvalid)
	}
	return s.mutateAthlete(ctx, "height", id, func(a model.Athlete) model.Athlete {
		a = a.Clone()
		a.HeightSamples = insertByDate(a.HeightSamples, sample)
		return a
	})
}

// insertByDate places sample after every sample dated on or before it.
func insertByDate(samples []model.HeightSample, sample model.HeightSample) []model.HeightSample {
	at, _ := derive.ParseDate(sample.Date)
	i := len(samples)
	for i > 0 {
		prev, ok := derive.ParseDate(samples[i-1].Date)
		if !ok || !prev.After(at) {
			break
		}
		i--
	}
	return slices.Insert(samples, i, sample)
}

// RecordReadiness sets the current readiness and appends it to the history.
func (s *Service) RecordReadiness(ctx context.Context, id string, value float64) (model.Athlete, error) {
	return s.mutateAthlete(ctx, "readiness", id, func(a model.Athlete) model.Athlete {
		a = a.Clone()
		a.Readiness = value
		a.ReadinessHistory = append(a.ReadinessHistory, value)
		return a
	})
}

func (s *Service) mutateAthlete(ctx context.Context, op, id string, patch func(model.Athlete) model.Athlete) (model.Athlete, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.athletes.Update(id, patch)
	if !ok {
		s.recordMutation(collectionAthletes, op, ErrNotFound)
		return model.Athlete{}, fmt.Errorf("%w: athlete %s", ErrNotFound, id)
	}
	s.athletes = next
	s.recordMutation(collectionAthletes, op, nil)

	updated, _ := next.Get(id)
	s.logger.Debug(ctx, "athlete updated", logger.String("id", id), logger.String("op", op))
	return updated, nil
}
