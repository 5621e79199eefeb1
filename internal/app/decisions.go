package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/pkg/logger"
)

const systemActor = "system"

func actorOr(actor, fallback string) string {
	if actor = strings.TrimSpace(actor); actor != "" {
		return actor
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return systemActor
}

// ListDecisions returns the decision log in insertion order.
func (s *Service) ListDecisions(_ context.Context) []model.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decisions.Items()
}

// GetDecision returns the decision with id.
func (s *Service) GetDecision(_ context.Context, id string) (model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decisions.Get(id)
	if !ok {
		return model.Decision{}, fmt.Errorf("%w: decision %s", ErrNotFound, id)
	}
	return d, nil
}

// AddDecision appends d to the log. Status defaults to Planned and the
// trail starts with a create entry.
func (s *Service) AddDecision(ctx context.Context, d model.Decision, actor string) (model.Decision, error) {
	d.What = strings.TrimSpace(d.What)
	if d.What == "" {
		s.recordMutation(collectionDecisions, "add", ErrInvalid)
		return model.Decision{}, fmt.Errorf("%w: what is required", ErrInvalid)
	}
	if d.Status == "" {
		d.Status = model.StatusPlanned
	}
	status, err := model.ParseStatus(string(d.Status))
	if err != nil {
		s.recordMutation(collectionDecisions, "add", ErrInvalid)
		return model.Decision{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	d.Status = status

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	d = d.Clone()
	d.CreatedAt = now
	d.Audit = nil
	d = d.WithAudit(model.AuditEntry{At: now, Actor: actorOr(actor, d.Who), Action: "create", Detail: string(d.Status)})

	next, added := s.decisions.Add(d)
	s.decisions = next
	s.recordMutation(collectionDecisions, "add", nil)
	s.updateCountsLocked()

	s.logger.Debug(ctx, "decision added", logger.String("id", added.ID), logger.String("status", string(added.Status)))
	return added, nil
}

// UpdateDecision merges patch into the decision with id and appends an
// audit entry describing the change.
func (s *Service) UpdateDecision(ctx context.Context, id string, patch model.DecisionPatch, actor string) (model.Decision, error) {
	if patch.Status != nil {
		status, err := model.ParseStatus(string(*patch.Status))
		if err != nil {
			s.recordMutation(collectionDecisions, "update", ErrInvalid)
			return model.Decision{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		patch.Status = &status
	}
	if patch.What != nil && strings.TrimSpace(*patch.What) == "" {
		s.recordMutation(collectionDecisions, "update", ErrInvalid)
		return model.Decision{}, fmt.Errorf("%w: what must not be empty", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now()
	next, ok := s.decisions.Update(id, func(d model.Decision) model.Decision {
		action := "update"
		if patch.Status != nil && *patch.Status != d.Status {
			action = "status"
		}
		entry := model.AuditEntry{At: at, Actor: actorOr(actor, ""), Action: action, Detail: patch.Changes(d)}
		return patch.Apply(d).WithAudit(entry)
	})
	if !ok {
		s.recordMutation(collectionDecisions, "update", ErrNotFound)
		return model.Decision{}, fmt.Errorf("%w: decision %s", ErrNotFound, id)
	}
	s.decisions = next
	s.recordMutation(collectionDecisions, "update", nil)

	updated, _ := next.Get(id)
	s.logger.Debug(ctx, "decision updated", logger.String("id", id), logger.String("status", string(updated.Status)))
	return updated, nil
}

// RemoveDecision deletes the decision with id.
func (s *Service) RemoveDecision(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.decisions.Remove(id)
	if !ok {
		s.recordMutation(collectionDecisions, "remove", ErrNotFound)
		return fmt.Errorf("%w: decision %s", ErrNotFound, id)
	}
	s.decisions = next
	s.recordMutation(collectionDecisions, "remove", nil)
	s.updateCountsLocked()
	s.logger.Debug(ctx, "decision removed", logger.String("id", id))
	return nil
}
