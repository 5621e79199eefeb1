package service

import (
	"context"
	"time"

	"github.com/courtevo/vero/internal/domain/reports"
	"github.com/courtevo/vero/pkg/metrics"
)

// Reports are re-evaluated on every call against the current snapshot.

func observeReport(name string, start time.Time) {
	metrics.RecordReportEvaluation(name, float64(time.Since(start).Microseconds())/1000)
}

// RelativeAge returns the birth-quarter distribution grouped by coach or squad.
func (s *Service) RelativeAge(ctx context.Context, by reports.GroupBy) reports.RelativeAgeReport {
	defer observeReport("relative_age", time.Now())
	return reports.RelativeAge(s.ListAthletes(ctx), by)
}

// Growth returns growth velocity and maturation stage per athlete.
func (s *Service) Growth(ctx context.Context) reports.GrowthReport {
	defer observeReport("growth", time.Now())
	return reports.Growth(s.ListAthletes(ctx))
}

// Readiness returns the readiness, trend and adherence dashboard.
func (s *Service) Readiness(ctx context.Context) reports.ReadinessReport {
	defer observeReport("readiness", time.Now())
	return reports.Readiness(s.ListAthletes(ctx))
}

// Compliance returns decision status counts with overdue items resolved at the current time.
func (s *Service) Compliance(ctx context.Context) reports.ComplianceReport {
	defer observeReport("compliance", time.Now())
	return reports.Compliance(s.ListDecisions(ctx), s.now())
}

// Reputation returns the weighted, tiered and ranked club table.
func (s *Service) Reputation(ctx context.Context) reports.ReputationReport {
	defer observeReport("reputation", time.Now())
	return reports.Reputation(s.ListClubs(ctx), s.weights, s.tiers)
}
