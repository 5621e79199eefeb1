package seed

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/reports"
	"github.com/courtevo/vero/pkg/logger"
)

// verifyReports recomputes the dashboard reports from the served records and
// compares them with what the service returns.
func verifyReports(ctx context.Context, client *Client, data Dataset, stats *Stats) error {
	logger.Get().Info(ctx, "verifying reports")

	var (
		athletes  []model.Athlete
		decisions []model.Decision
		clubs     []model.Club
	)
	for path, v := range map[string]any{"/athletes": &athletes, "/decisions": &decisions, "/clubs": &clubs} {
		if err := client.GetJSON(ctx, path, v); err != nil {
			return err
		}
	}

	var errs []error
	check := func(ok bool, format string, args ...any) {
		stats.Checks++
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(athletes) >= len(data.Athletes), "roster has %d athletes, seeded %d", len(athletes), len(data.Athletes))
	check(len(decisions) >= len(data.Decisions), "log has %d decisions, seeded %d", len(decisions), len(data.Decisions))
	check(len(clubs) >= len(data.Clubs), "%d clubs listed, seeded %d", len(clubs), len(data.Clubs))

	var ra reports.RelativeAgeReport
	if err := client.GetJSON(ctx, "/reports/relative-age?group=squad", &ra); err != nil {
		return err
	}
	want := reports.RelativeAge(athletes, reports.GroupBySquad).Overall
	check(ra.Overall.Total == len(athletes), "relative age covers %d athletes, roster has %d", ra.Overall.Total, len(athletes))
	check(maps.Equal(ra.Overall.Quarters, want.Quarters), "relative age quarters %v, recomputed %v", ra.Overall.Quarters, want.Quarters)
	check(ra.Overall.Bias == want.Bias, "relative age bias %.1f, recomputed %.1f", ra.Overall.Bias, want.Bias)

	var growth reports.GrowthReport
	if err := client.GetJSON(ctx, "/reports/growth", &growth); err != nil {
		return err
	}
	check(maps.Equal(growth.Stages, reports.Growth(athletes).Stages), "growth stages %v differ from recomputed", growth.Stages)

	var readiness reports.ReadinessReport
	if err := client.GetJSON(ctx, "/reports/readiness", &readiness); err != nil {
		return err
	}
	wantReady := reports.Readiness(athletes)
	check(readiness.Average == wantReady.Average, "readiness average %.1f, recomputed %.1f", readiness.Average, wantReady.Average)
	check(readiness.Watchlist == wantReady.Watchlist, "watchlist %d, recomputed %d", readiness.Watchlist, wantReady.Watchlist)

	var compliance reports.ComplianceReport
	if err := client.GetJSON(ctx, "/reports/compliance", &compliance); err != nil {
		return err
	}
	sum := 0
	for _, n := range compliance.ByStatus {
		sum += n
	}
	check(compliance.Total == len(decisions), "compliance covers %d decisions, log has %d", compliance.Total, len(decisions))
	check(sum == compliance.Total, "compliance statuses sum to %d, total %d", sum, compliance.Total)

	var reputation reports.ReputationReport
	if err := client.GetJSON(ctx, "/reports/reputation", &reputation); err != nil {
		return err
	}
	check(len(reputation.Rows) == len(clubs), "reputation ranks %d clubs, %d listed", len(reputation.Rows), len(clubs))
	for i := 1; i < len(reputation.Rows); i++ {
		prev, cur := reputation.Rows[i-1], reputation.Rows[i]
		check(prev.Score >= cur.Score && prev.Rank <= cur.Rank,
			"reputation out of order at %s (rank %d, %.1f) after %s (rank %d, %.1f)",
			cur.Name, cur.Rank, cur.Score, prev.Name, prev.Rank, prev.Score)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Get().Info(ctx, "reports verified", logger.Int("checks", stats.Checks))
	return nil
}
