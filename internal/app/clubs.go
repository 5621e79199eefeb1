package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/pkg/logger"
)

// ListClubs returns the clubs in insertion order.
func (s *Service) ListClubs(_ context.Context) []model.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clubs.Items()
}

// GetClub returns the club with id.
func (s *Service) GetClub(_ context.Context, id string) (model.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clubs.Get(id)
	if !ok {
		return model.Club{}, fmt.Errorf("%w: club %s", ErrNotFound, id)
	}
	return c, nil
}

// AddClub appends c with a fresh id.
func (s *Service) AddClub(ctx context.Context, c model.Club) (model.Club, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		s.recordMutation(collectionClubs, "add", ErrInvalid)
		return model.Club{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c = c.Clone()
	c.CreatedAt = s.now()
	next, added := s.clubs.Add(c)
	s.clubs = next
	s.recordMutation(collectionClubs, "add", nil)
	s.updateCountsLocked()

	s.logger.Debug(ctx, "club added", logger.String("id", added.ID))
	return added, nil
}

// UpdateClub merges patch into the club with id.
func (s *Service) UpdateClub(ctx context.Context, id string, patch model.ClubPatch) (model.Club, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		s.recordMutation(collectionClubs, "update", ErrInvalid)
		return model.Club{}, fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.clubs.Update(id, patch.Apply)
	if !ok {
		s.recordMutation(collectionClubs, "update", ErrNotFound)
		return model.Club{}, fmt.Errorf("%w: club %s", ErrNotFound, id)
	}
	s.clubs = next
	s.recordMutation(collectionClubs, "update", nil)

	updated, _ := next.Get(id)
	s.logger.Debug(ctx, "club updated", logger.String("id", id))
	return updated, nil
}

// RemoveClub deletes the club with id.
func (s *Service) RemoveClub(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.clubs.Remove(id)
	if !ok {
		s.recordMutation(collectionClubs, "remove", ErrNotFound)
		return fmt.Errorf("%w: club %s", ErrNotFound, id)
	}
	s.clubs = next
	s.recordMutation(collectionClubs, "remove", nil)
	s.updateCountsLocked()
	s.logger.Debug(ctx, "club removed", logger.String("id", id))
	return nil
}
