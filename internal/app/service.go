// Package service owns the record collections behind the dashboards and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/courtevo/vero/internal/adapters/repository"
	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/records"
	"github.com/courtevo/vero/internal/domain/reports"
	"github.com/courtevo/vero/pkg/logger"
	"github.com/courtevo/vero/pkg/metrics"
)

// Collection names used in logs and metrics.
const (
	collectionAthletes  = "athletes"
	collectionDecisions = "decisions"
	collectionClubs     = "clubs"
)

// Service holds the athlete roster, decision log and club collections.
// Every mutation swaps in a new collection value under mu; readers get the
// current immutable snapshot.
type Service struct {
	mu sync.Mutex

	athletes  records.Collection[model.Athlete]
	decisions records.Collection[model.Decision]
	clubs     records.Collection[model.Club]

	// Configuration
	repo     repository.Store
	schedule string
	weights  map[string]float64
	tiers    derive.Tiers
	now      func() time.Time
	newID    records.IDFunc

	// State
	started      bool
	scheduler    *cron.Cron
	lastSnapshot time.Time
	snapshots    int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRepository sets the snapshot store restored on Start and saved on schedule and Stop.
func WithRepository(repo repository.Store) Option {
	return func(s *Service) {
		s.repo = repo
	}
}

// WithSnapshotSchedule sets the cron spec for periodic snapshots. Empty disables them.
func WithSnapshotSchedule(spec string) Option {
	return func(s *Service) {
		s.schedule = spec
	}
}

// WithReputationWeights overrides club category weights by category name.
func WithReputationWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.weights = maps.Clone(weights)
	}
}

// WithReputationTiers sets the inclusive lower bounds of the gold and amber tiers.
func WithReputationTiers(gold, amber float64) Option {
	return func(s *Service) {
		s.tiers = reports.ReputationTiers(gold, amber)
	}
}

// WithClock overrides the time source used for timestamps and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc overrides the record identifier generator.
func WithIDFunc(f records.IDFunc) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// New constructs a new Service with empty collections.
func New(opts ...Option) *Service {
	s := &Service{
		schedule: "@every 1m",
		tiers:    reports.ReputationTiers(90, 75),
		now:      time.Now,
		newID:    records.UUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.athletes = records.New(model.AthleteID, model.WithAthleteID, records.WithIDFunc[model.Athlete](s.newID))
	s.decisions = records.New(model.DecisionID, model.WithDecisionID, records.WithIDFunc[model.Decision](s.newID))
	s.clubs = records.New(model.ClubID, model.WithClubID, records.WithIDFunc[model.Club](s.newID))
	return s
}

// Start restores the last snapshot and schedules periodic saves.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting vero service...")

	if s.repo != nil {
		snap, ok, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSnapshot, err)
		}
		if ok {
			s.restoreLocked(snap)
			s.logger.Info(ctx, "restored snapshot",
				logger.Int("athletes", len(snap.Athletes)),
				logger.Int("decisions", len(snap.Decisions)),
				logger.Int("clubs", len(snap.Clubs)),
			)
		}

		if s.schedule != "" {
			c := cron.New(cron.WithLogger(cronLogger{log: s.logger}))
			if _, err := c.AddFunc(s.schedule, s.scheduledSnapshot); err != nil {
				return fmt.Errorf("%w: schedule %q: %w", ErrInvalid, s.schedule, err)
			}
			c.Start()
			s.scheduler = c
		}
	}

	s.started = true
	s.updateCountsLocked()
	s.logger.Info(ctx, "vero service started",
		logger.Bool("persistent", s.repo != nil),
		logger.String("snapshotSchedule", s.schedule),
	)
	return nil
}

// Stop halts the scheduler, writes a final snapshot and closes the repository.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping vero service...")

	if scheduler != nil {
		// Wait for a running snapshot job before taking the final one.
		<-scheduler.Stop().Done()
	}

	var err error
	if s.repo != nil {
		if err = s.SaveSnapshot(ctx); err != nil {
			s.logger.Error(ctx, "final snapshot failed", logger.Error(err))
		}
		if cerr := s.repo.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", ErrSnapshot, cerr)
		}
	}

	s.logger.Info(ctx, "vero service stopped")
	return err
}

// Close releases the repository without taking a snapshot. It is meant for a
// service whose Start failed; a running service should be stopped with Stop.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.repo == nil {
		return nil
	}
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrSnapshot, err)
	}
	return nil
}

// Snapshot returns the current state of every collection.
func (s *Service) Snapshot() repository.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.Snapshot{
		Athletes:  s.athletes.Items(),
		Decisions: s.decisions.Items(),
		Clubs:     s.clubs.Items(),
		SavedAt:   s.now(),
	}
}

// Restore replaces every collection with the contents of snap.
func (s *Service) Restore(snap repository.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
}

func (s *Service) restoreLocked(snap repository.Snapshot) {
	s.athletes = s.athletes.Replace(snap.Athletes)
	s.decisions = s.decisions.Replace(snap.Decisions)
	s.clubs = s.clubs.Replace(snap.Clubs)
	s.updateCountsLocked()
}

// SaveSnapshot writes the current state to the repository.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	start := time.Now()
	snap := s.Snapshot()
	if err := s.repo.Save(ctx, snap); err != nil {
		metrics.RecordSnapshotError()
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	metrics.RecordSnapshot(float64(time.Since(start).Milliseconds()))

	s.mu.Lock()
	s.lastSnapshot = snap.SavedAt
	s.snapshots++
	s.mu.Unlock()

	s.logger.Debug(ctx, "snapshot saved",
		logger.Int("records", snap.Records()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) scheduledSnapshot() {
	ctx := context.Background()
	if err := s.SaveSnapshot(ctx); err != nil {
		s.logger.Error(ctx, "scheduled snapshot failed", logger.Error(err))
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"athletes":         s.athletes.Len(),
		"decisions":        s.decisions.Len(),
		"clubs":            s.clubs.Len(),
		"persistent":       s.repo != nil,
		"snapshotSchedule": s.schedule,
		"snapshots":        s.snapshots,
	}
	if !s.lastSnapshot.IsZero() {
		stats["lastSnapshot"] = s.lastSnapshot.UTC().Format(time.RFC3339)
	}

	s.updateCountsLocked()
	return stats
}

func (s *Service) updateCountsLocked() {
	metrics.UpdateRecordsTotal(collectionAthletes, s.athletes.Len())
	metrics.UpdateRecordsTotal(collectionDecisions, s.decisions.Len())
	metrics.UpdateRecordsTotal(collectionClubs, s.clubs.Len())
}

func (s *Service) recordMutation(collection, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordMutation(collection, op, outcome)
}

// cronLogger routes scheduler logs through the service logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), "cron: "+msg, logger.Any("details", keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(context.Background(), "cron: "+msg, logger.Error(err), logger.Any("details", keysAndValues))
}
