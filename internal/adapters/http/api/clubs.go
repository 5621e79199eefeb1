package api

import (
	"context"
	"net/http"

	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/internal/domain/model"
)

// ClubDependencies defines the club operations used by ClubsHandler.
type ClubDependencies interface {
	ListClubs(ctx context.Context) []model.Club
	GetClub(ctx context.Context, id string) (model.Club, error)
	AddClub(ctx context.Context, c model.Club) (model.Club, error)
	UpdateClub(ctx context.Context, id string, patch model.ClubPatch) (model.Club, error)
	RemoveClub(ctx context.Context, id string) error
}

// ClubsHandler handles /clubs requests.
type ClubsHandler struct {
	deps     ClubDependencies
	deduper  dedupe.Deduper
	maxLimit int
}

// NewClubsHandler creates a new clubs handler.
func NewClubsHandler(deps ClubDependencies, deduper dedupe.Deduper, maxLimit int) *ClubsHandler {
	return &ClubsHandler{deps: deps, deduper: deduper, maxLimit: maxLimit}
}

// HandleList handles GET /clubs requests.
func (h *ClubsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_clubs"
	limit, err := parseLimit(r, op, h.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, truncate(h.deps.ListClubs(r.Context()), limit))
}

// HandleCreate handles POST /clubs requests.
func (h *ClubsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_club"
	var req model.Club
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	createOnce(w, r, h.deduper, op, "clubs", h.deps.GetClub,
		func(ctx context.Context) (model.Club, string, error) {
			c, err := h.deps.AddClub(ctx, req)
			return c, c.ID, err
		})
}

// HandleGet handles GET /clubs/{id} requests.
func (h *ClubsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.GetClub(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap("api.get_club", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleUpdate handles PATCH /clubs/{id} requests.
func (h *ClubsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_club"
	var patch model.ClubPatch
	if err := decodeJSON(w, r, op, &patch); err != nil {
		writeFailure(w, err)
		return
	}
	c, err := h.deps.UpdateClub(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDelete handles DELETE /clubs/{id} requests.
func (h *ClubsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveClub(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, Wrap("api.delete_club", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
