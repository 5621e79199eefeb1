package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/reports"
	"github.com/xuri/excelize/v2"
)

const athleteSheet = "Athletes"

// WriteAthletesXLSX writes the roster as a single-sheet workbook.
func WriteAthletesXLSX(w io.Writer, athletes []model.Athlete) (retErr error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), athleteSheet); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	header := make([]any, 0, len(AthleteColumns)+len(athleteExtraColumns))
	for _, c := range AthleteColumns {
		header = append(header, c)
	}
	for _, c := range athleteExtraColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(athleteSheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	for i, a := range athletes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		row := []any{
			a.Name, a.Squad, a.Position, a.Coach, a.BirthDate,
			a.Readiness, a.Engagement, a.Trust,
			a.ID, a.Watchlist, reports.Adherence(a),
		}
		if err := f.SetSheetRow(athleteSheet, cell, &row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// RowError describes one spreadsheet row that could not be imported.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ReadAthletesXLSX parses the first sheet of a workbook into athletes using
// the AthleteColumns order. A header row is skipped when its first cell is
// "name". Rows that fail to parse are reported and left out.
func ReadAthletesXLSX(r io.Reader) ([]model.Athlete, []RowError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, ErrEmptyWorkbook
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyWorkbook
	}

	start := 0
	if len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		start = 1
	}

	var (
		athletes []model.Athlete
		rejected []RowError
	)
	for i := start; i < len(rows); i++ {
		a, err := parseAthleteRow(rows[i])
		if err != nil {
			rejected = append(rejected, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		athletes = append(athletes, a)
	}
	return athletes, rejected, nil
}

func parseAthleteRow(row []string) (model.Athlete, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	a := model.Athlete{
		Name:      cell(0),
		Squad:     cell(1),
		Position:  cell(2),
		Coach:     cell(3),
		BirthDate: cell(4),
	}
	if a.Name == "" {
		return model.Athlete{}, fmt.Errorf("%w: missing name", ErrInvalidRow)
	}
	for i, dst := range []*float64{&a.Readiness, &a.Engagement, &a.Trust} {
		v := cell(5 + i)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.Athlete{}, fmt.Errorf("%w: %s %q is not a number", ErrInvalidRow, AthleteColumns[5+i], v)
		}
		*dst = n
	}
	return a, nil
}
