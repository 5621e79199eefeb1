package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/courtevo/vero/internal/domain/reports"
)

// ReportDependencies defines the derived metrics served by ReportsHandler.
type ReportDependencies interface {
	RelativeAge(ctx context.Context, by reports.GroupBy) reports.RelativeAgeReport
	Growth(ctx context.Context) reports.GrowthReport
	Readiness(ctx context.Context) reports.ReadinessReport
	Compliance(ctx context.Context) reports.ComplianceReport
	Reputation(ctx context.Context) reports.ReputationReport
}

// ReportsHandler handles /reports requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleRelativeAge handles GET /reports/relative-age?group=coach|squad requests.
func (h *ReportsHandler) HandleRelativeAge(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("group")
	by, ok := reports.ParseGroupBy(raw)
	if !ok {
		writeFailure(w, WrapKind("api.relative_age", ErrBadRequest, fmt.Errorf("unknown group %q", raw)))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.RelativeAge(r.Context(), by))
}

// HandleGrowth handles GET /reports/growth requests.
func (h *ReportsHandler) HandleGrowth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Growth(r.Context()))
}

// HandleReadiness handles GET /reports/readiness requests.
func (h *ReportsHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Readiness(r.Context()))
}

// HandleCompliance handles GET /reports/compliance requests.
func (h *ReportsHandler) HandleCompliance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Compliance(r.Context()))
}

// HandleReputation handles GET /reports/reputation requests.
func (h *ReportsHandler) HandleReputation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Reputation(r.Context()))
}
