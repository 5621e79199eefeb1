package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/courtevo/vero/internal/adapters/export"
	"github.com/courtevo/vero/pkg/logger"
	"github.com/courtevo/vero/pkg/metrics"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ImportResult summarises a roster import.
type ImportResult = export.ImportResult

// ImportAthletes reads a workbook and appends its rows to the roster, or
// replaces the roster when replace is set. Every imported row gets a fresh id.
func (s *Service) ImportAthletes(ctx context.Context, r io.Reader, replace bool) (ImportResult, error) {
	rows, rejected, err := export.ReadAthletesXLSX(r)
	if err != nil {
		s.recordMutation(collectionAthletes, "import", err)
		return ImportResult{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.athletes
	if replace {
		next = next.Replace(nil)
	}
	now := s.now()
	for _, a := range rows {
		a.CreatedAt = now
		next, _ = next.Add(a)
	}
	s.athletes = next
	s.recordMutation(collectionAthletes, "import", nil)
	s.updateCountsLocked()

	metrics.RecordImportRows(collectionAthletes, "imported", len(rows))
	metrics.RecordImportRows(collectionAthletes, "rejected", len(rejected))
	s.logger.Info(ctx, "athletes imported",
		logger.Int("imported", len(rows)),
		logger.Int("rejected", len(rejected)),
		logger.Bool("replace", replace),
	)

	if rejected == nil {
		rejected = []export.RowError{}
	}
	return ImportResult{Imported: len(rows), Rejected: rejected, Replaced: replace, Total: next.Len()}, nil
}

// ExportAthletes writes the roster in format (csv or xlsx).
func (s *Service) ExportAthletes(ctx context.Context, w io.Writer, format string) error {
	athletes := s.ListAthletes(ctx)
	var err error
	switch strings.ToLower(format) {
	case FormatCSV:
		err = export.WriteAthletesCSV(w, athletes)
	case FormatXLSX:
		err = export.WriteAthletesXLSX(w, athletes)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}
	metrics.RecordExport(collectionAthletes, strings.ToLower(format))
	return nil
}

// ExportDecisions writes the decision log as CSV.
func (s *Service) ExportDecisions(ctx context.Context, w io.Writer) error {
	if err := export.WriteDecisionsCSV(w, s.ListDecisions(ctx), s.now()); err != nil {
		return err
	}
	metrics.RecordExport(collectionDecisions, FormatCSV)
	return nil
}
