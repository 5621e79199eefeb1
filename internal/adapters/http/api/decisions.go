package api

import (
	"context"
	"net/http"

	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/internal/domain/model"
)

const headerActor = "X-Actor"

// DecisionDependencies defines the decision log operations used by DecisionsHandler.
type DecisionDependencies interface {
	ListDecisions(ctx context.Context) []model.Decision
	GetDecision(ctx context.Context, id string) (model.Decision, error)
	AddDecision(ctx context.Context, d model.Decision, actor string) (model.Decision, error)
	UpdateDecision(ctx context.Context, id string, patch model.DecisionPatch, actor string) (model.Decision, error)
	RemoveDecision(ctx context.Context, id string) error
}

// DecisionsHandler handles /decisions requests.
type DecisionsHandler struct {
	deps     DecisionDependencies
	deduper  dedupe.Deduper
	maxLimit int
}

// NewDecisionsHandler creates a new decisions handler.
func NewDecisionsHandler(deps DecisionDependencies, deduper dedupe.Deduper, maxLimit int) *DecisionsHandler {
	return &DecisionsHandler{deps: deps, deduper: deduper, maxLimit: maxLimit}
}

// HandleList handles GET /decisions requests.
func (h *DecisionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_decisions"
	limit, err := parseLimit(r, op, h.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, truncate(h.deps.ListDecisions(r.Context()), limit))
}

// HandleCreate handles POST /decisions requests. The X-Actor header names
// who is recorded in the audit trail.
func (h *DecisionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_decision"
	var req model.Decision
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	actor := r.Header.Get(headerActor)
	createOnce(w, r, h.deduper, op, "decisions", h.deps.GetDecision,
		func(ctx context.Context) (model.Decision, string, error) {
			d, err := h.deps.AddDecision(ctx, req, actor)
			return d, d.ID, err
		})
}

// HandleGet handles GET /decisions/{id} requests.
func (h *DecisionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_decision"
	d, err := h.deps.GetDecision(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleUpdate handles PATCH /decisions/{id} requests.
func (h *DecisionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_decision"
	var patch model.DecisionPatch
	if err := decodeJSON(w, r, op, &patch); err != nil {
		writeFailure(w, err)
		return
	}
	d, err := h.deps.UpdateDecision(r.Context(), r.PathValue("id"), patch, r.Header.Get(headerActor))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleDelete handles DELETE /decisions/{id} requests.
func (h *DecisionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_decision"
	if err := h.deps.RemoveDecision(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
