package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/pkg/metrics"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplay         = "Idempotent-Replay"
)

// createOnce runs create unless the request's Idempotency-Key was already
// used in scope, in which case the record created the first time is
// returned with 200 instead of 201.
func createOnce[T any](
	w http.ResponseWriter,
	r *http.Request,
	d dedupe.Deduper,
	op, scope string,
	lookup func(context.Context, string) (T, error),
	create func(context.Context) (T, string, error),
) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key == "" {
		rec, _, err := create(ctx)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, rec)
		return
	}

	scoped := scope + ":" + key
	if id, seen := d.SeenAndRecord(ctx, scoped); seen {
		if id == "" {
			writeFailure(w, NewKind(op, ErrInFlight))
			return
		}
		rec, err := lookup(ctx, id)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		metrics.RecordIdempotentReplay()
		w.Header().Set(headerReplay, "true")
		writeJSON(w, http.StatusOK, rec)
		return
	}

	rec, id, err := create(ctx)
	if err != nil {
		// Let the client retry with the same key.
		d.Unrecord(ctx, scoped)
		writeFailure(w, Wrap(op, err))
		return
	}
	d.Bind(ctx, scoped, id)
	writeJSON(w, http.StatusCreated, rec)
}
