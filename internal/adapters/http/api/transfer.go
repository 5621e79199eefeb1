package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/courtevo/vero/internal/adapters/export"
)

const (
	maxImportBody = 10 << 20

	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// TransferDependencies defines the spreadsheet import and export operations.
type TransferDependencies interface {
	ImportAthletes(ctx context.Context, r io.Reader, replace bool) (export.ImportResult, error)
	ExportAthletes(ctx context.Context, w io.Writer, format string) error
	ExportDecisions(ctx context.Context, w io.Writer) error
}

// TransferHandler handles /export and /import requests.
type TransferHandler struct {
	deps TransferDependencies
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(deps TransferDependencies) *TransferHandler {
	return &TransferHandler{deps: deps}
}

// HandleExportAthletesCSV handles GET /export/athletes.csv requests.
func (h *TransferHandler) HandleExportAthletesCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, "api.export_athletes", "athletes.csv", mimeCSV, func(buf io.Writer) error {
		return h.deps.ExportAthletes(r.Context(), buf, "csv")
	})
}

// HandleExportAthletesXLSX handles GET /export/athletes.xlsx requests.
func (h *TransferHandler) HandleExportAthletesXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, "api.export_athletes", "athletes.xlsx", mimeXLSX, func(buf io.Writer) error {
		return h.deps.ExportAthletes(r.Context(), buf, "xlsx")
	})
}

// HandleExportDecisionsCSV handles GET /export/decisions.csv requests.
func (h *TransferHandler) HandleExportDecisionsCSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, "api.export_decisions", "decisions.csv", mimeCSV, func(buf io.Writer) error {
		return h.deps.ExportDecisions(r.Context(), buf)
	})
}

// download renders into memory first so a failed export still gets a JSON error.
func (h *TransferHandler) download(w http.ResponseWriter, op, filename, mime string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleImportAthletes handles POST /import/athletes?mode=append|replace requests.
// The body is a raw xlsx workbook.
func (h *TransferHandler) HandleImportAthletes(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_athletes"
	var replace bool
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "append":
	case "replace":
		replace = true
	default:
		writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("unknown mode %q", mode)))
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBody)
	res, err := h.deps.ImportAthletes(r.Context(), body, replace)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
