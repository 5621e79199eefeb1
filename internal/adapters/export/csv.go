// Package export renders collections as CSV and XLSX downloads and reads
// athlete rosters back from spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/reports"
)

// AthleteColumns is the positional column order shared by exports and imports.
var AthleteColumns = []string{"name", "squad", "position", "coach", "birth_date", "readiness", "engagement", "trust"}

var athleteExtraColumns = []string{"id", "watchlist", "adherence"}

// DecisionColumns is the header of the decision log export.
var DecisionColumns = []string{"id", "what", "why", "who", "status", "effective_status", "due", "audit_entries"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func athleteRecord(a model.Athlete) []string {
	return []string{
		a.Name, a.Squad, a.Position, a.Coach, a.BirthDate,
		formatFloat(a.Readiness), formatFloat(a.Engagement), formatFloat(a.Trust),
		a.ID, strconv.FormatBool(a.Watchlist), formatFloat(reports.Adherence(a)),
	}
}

// WriteAthletesCSV writes the roster with a header row.
func WriteAthletesCSV(w io.Writer, athletes []model.Athlete) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, AthleteColumns...), athleteExtraColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, a := range athletes {
		if err := cw.Write(athleteRecord(a)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteDecisionsCSV writes the decision log. effective_status applies the
// overdue rule at now.
func WriteDecisionsCSV(w io.Writer, decisions []model.Decision, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DecisionColumns); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, d := range decisions {
		due := ""
		if d.Due != nil {
			due = d.Due.UTC().Format(time.DateOnly)
		}
		rec := []string{
			d.ID, d.What, d.Why, d.Who,
			string(d.Status), string(reports.EffectiveStatus(d, now)),
			due, strconv.Itoa(len(d.Audit)),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
