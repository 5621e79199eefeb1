package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/courtevo/vero/internal/adapters/export"
	"github.com/courtevo/vero/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func roster() []model.Athlete {
	return []model.Athlete{
		{ID: "a1", Name: `O'Neil, "Jr"`, Squad: "U14", Position: "PG", Coach: "Kim", BirthDate: "2011-01-15",
			Readiness: 82.5, Engagement: 70, Trust: 90, SessionsPlanned: 10, SessionsCompleted: 8, Watchlist: true},
		{ID: "a2", Name: "Bo", Squad: "U16", Position: "C", Coach: "Lee", BirthDate: "",
			Readiness: 61, Engagement: 55, Trust: 72},
	}
}

func TestAthletesCSV(t *testing.T) {
	Convey("Given a roster with awkward characters", t, func() {
		var buf bytes.Buffer
		err := export.WriteAthletesCSV(&buf, roster())
		So(err, ShouldBeNil)

		Convey("Then quotes and commas are escaped", func() {
			So(buf.String(), ShouldContainSubstring, `"O'Neil, ""Jr"""`)
		})

		Convey("Then the output parses back field for field", func() {
			records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 3)
			So(records[0][:8], ShouldResemble, export.AthleteColumns)
			So(records[1][0], ShouldEqual, `O'Neil, "Jr"`)
			So(records[1][5], ShouldEqual, "82.5")
			So(records[1][9], ShouldEqual, "true")
			So(records[1][10], ShouldEqual, "80")
			So(records[2][4], ShouldEqual, "")
		})
	})
}

func TestDecisionsCSV(t *testing.T) {
	Convey("Given a decision past its due date", t, func() {
		now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		due := now.AddDate(0, 0, -3)
		decisions := []model.Decision{{
			ID: "d1", What: "Cap minutes\nfor U14", Who: "Kim", Status: model.StatusInProgress, Due: &due,
			Audit: []model.AuditEntry{{Action: "create"}, {Action: "update"}},
		}}

		var buf bytes.Buffer
		So(export.WriteDecisionsCSV(&buf, decisions, now), ShouldBeNil)

		Convey("Then the row carries stored and effective status", func() {
			records, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)
			So(records[0], ShouldResemble, export.DecisionColumns)
			So(records[1], ShouldResemble, []string{
				"d1", "Cap minutes\nfor U14", "", "Kim", "In Progress", "Overdue", "2024-05-29", "2",
			})
		})
	})
}

func TestAthletesXLSX(t *testing.T) {
	Convey("Given an exported workbook", t, func() {
		var buf bytes.Buffer
		So(export.WriteAthletesXLSX(&buf, roster()), ShouldBeNil)

		Convey("When it is imported again", func() {
			athletes, rejected, err := export.ReadAthletesXLSX(&buf)

			Convey("Then the header is skipped and the positional columns survive", func() {
				So(err, ShouldBeNil)
				So(rejected, ShouldBeEmpty)
				So(athletes, ShouldHaveLength, 2)
				So(athletes[0].Name, ShouldEqual, `O'Neil, "Jr"`)
				So(athletes[0].Coach, ShouldEqual, "Kim")
				So(athletes[0].BirthDate, ShouldEqual, "2011-01-15")
				So(athletes[0].Readiness, ShouldEqual, 82.5)
				So(athletes[0].Trust, ShouldEqual, 90)
				So(athletes[1].BirthDate, ShouldEqual, "")
				So(athletes[1].ID, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a workbook without a header and with bad rows", t, func() {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		rows := [][]any{
			{"Cy", "U14", "SF", "Kim", "2012-04-02", "77", "60", "65"},
			{"", "U14"},
			{"Di", "U16", "PF", "Lee", "2010-08-09", "high"},
			{"Ed", "U16"},
		}
		for i, r := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			So(f.SetSheetRow(sheet, cell, &r), ShouldBeNil)
		}
		data, err := f.WriteToBuffer()
		So(err, ShouldBeNil)
		_ = f.Close()

		athletes, rejected, err := export.ReadAthletesXLSX(bytes.NewReader(data.Bytes()))

		Convey("Then good rows are kept and bad rows reported", func() {
			So(err, ShouldBeNil)
			So(athletes, ShouldHaveLength, 2)
			So(athletes[0].Name, ShouldEqual, "Cy")
			So(athletes[0].Readiness, ShouldEqual, 77)
			So(athletes[1].Name, ShouldEqual, "Ed")
			So(athletes[1].Readiness, ShouldEqual, 0)
			So(rejected, ShouldHaveLength, 2)
			So(rejected[0].Row, ShouldEqual, 2)
			So(rejected[1].Row, ShouldEqual, 3)
			So(rejected[1].Reason, ShouldContainSubstring, "readiness")
		})
	})

	Convey("Given bytes that are not a workbook", t, func() {
		_, _, err := export.ReadAthletesXLSX(strings.NewReader("name,squad\n"))

		Convey("Then an error is returned", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
