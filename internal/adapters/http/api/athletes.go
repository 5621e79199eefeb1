package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/internal/domain/model"
)

// AthleteDependencies defines the roster operations used by AthletesHandler.
type AthleteDependencies interface {
	ListAthletes(ctx context.Context) []model.Athlete
	ListAthletesWhere(ctx context.Context, keep func(model.Athlete) bool) []model.Athlete
	GetAthlete(ctx context.Context, id string) (model.Athlete, error)
	AddAthlete(ctx context.Context, a model.Athlete) (model.Athlete, error)
	UpdateAthlete(ctx context.Context, id string, patch model.AthletePatch) (model.Athlete, error)
	RemoveAthlete(ctx context.Context, id string) error
	ToggleWatchlist(ctx context.Context, id string) (model.Athlete, error)
	AddNote(ctx context.Context, id, author, text string) (model.Athlete, error)
	AddHeightSample(ctx context.Context, id string, sample model.HeightSample) (model.Athlete, error)
	RecordReadiness(ctx context.Context, id string, value float64) (model.Athlete, error)
}

// AthletesHandler handles /athletes requests.
type AthletesHandler struct {
	deps     AthleteDependencies
	deduper  dedupe.Deduper
	maxLimit int
}

// NewAthletesHandler creates a new athletes handler.
func NewAthletesHandler(deps AthleteDependencies, deduper dedupe.Deduper, maxLimit int) *AthletesHandler {
	return &AthletesHandler{deps: deps, deduper: deduper, maxLimit: maxLimit}
}

// HandleList handles GET /athletes?squad=&coach=&watchlist=&limit= requests.
func (h *AthletesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_athletes"
	limit, err := parseLimit(r, op, h.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}

	q := r.URL.Query()
	squad, coach := q.Get("squad"), q.Get("coach")
	var watchlist *bool
	if raw := q.Get("watchlist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		watchlist = &v
	}

	var athletes []model.Athlete
	if squad == "" && coach == "" && watchlist == nil {
		athletes = h.deps.ListAthletes(r.Context())
	} else {
		athletes = h.deps.ListAthletesWhere(r.Context(), func(a model.Athlete) bool {
			return (squad == "" || strings.EqualFold(a.Squad, squad)) &&
				(coach == "" || strings.EqualFold(a.Coach, coach)) &&
				(watchlist == nil || a.Watchlist == *watchlist)
		})
	}
	writeJSON(w, http.StatusOK, truncate(athletes, limit))
}

// HandleCreate handles POST /athletes requests.
func (h *AthletesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_athlete"
	var req model.Athlete
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	createOnce(w, r, h.deduper, op, "athletes", h.deps.GetAthlete,
		func(ctx context.Context) (model.Athlete, string, error) {
			a, err := h.deps.AddAthlete(ctx, req)
			return a, a.ID, err
		})
}

// HandleGet handles GET /athletes/{id} requests.
func (h *AthletesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athlete"
	a, err := h.deps.GetAthlete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleUpdate handles PATCH /athletes/{id} requests.
func (h *AthletesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_athlete"
	var patch model.AthletePatch
	if err := decodeJSON(w, r, op, &patch); err != nil {
		writeFailure(w, err)
		return
	}
	a, err := h.deps.UpdateAthlete(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /athletes/{id} requests.
func (h *AthletesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_athlete"
	if err := h.deps.RemoveAthlete(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleWatchlist handles POST /athletes/{id}/watchlist requests.
func (h *AthletesHandler) HandleToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_watchlist"
	a, err := h.deps.ToggleWatchlist(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type noteRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// HandleAddNote handles POST /athletes/{id}/notes requests.
func (h *AthletesHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_note"
	var req noteRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	a, err := h.deps.AddNote(r.Context(), r.PathValue("id"), req.Author, req.Text)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleAddHeight handles POST /athletes/{id}/heights requests.
func (h *AthletesHandler) HandleAddHeight(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_height"
	var req model.HeightSample
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	a, err := h.deps.AddHeightSample(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type readinessRequest struct {
	Value *float64 `json:"value"`
}

// HandleRecordReadiness handles POST /athletes/{id}/readiness requests.
func (h *AthletesHandler) HandleRecordReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_readiness"
	var req readinessRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if req.Value == nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing value")))
		return
	}
	a, err := h.deps.RecordReadiness(r.Context(), r.PathValue("id"), *req.Value)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}
