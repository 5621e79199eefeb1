package reports_test

import (
	"testing"
	"time"

	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/reports"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRelativeAge(t *testing.T) {
	Convey("Given athletes across two coaches", t, func() {
		athletes := []model.Athlete{
			{ID: "1", Coach: "Kim", Squad: "U14", BirthDate: "2011-01-15"},
			{ID: "2", Coach: "Kim", Squad: "U14", BirthDate: "2011-05-01"},
			{ID: "3", Coach: "Kim", Squad: "U16", BirthDate: "2011-10-01"},
			{ID: "4", Coach: "Kim", Squad: "U16", BirthDate: ""},
			{ID: "5", Coach: "Lee", Squad: "U16", BirthDate: "2011-11-20"},
		}

		Convey("When grouped by coach", func() {
			got := reports.RelativeAge(athletes, reports.GroupByCoach)

			Convey("Then groups are sorted and counted per quarter", func() {
				So(got.Rows, ShouldHaveLength, 2)
				kim := got.Rows[0]
				So(kim.Group, ShouldEqual, "Kim")
				So(kim.Quarters, ShouldResemble, map[string]int{"Q1": 1, "Q2": 1, "Q3": 0, "Q4": 1})
				So(kim.Unknown, ShouldEqual, 1)
				So(kim.Total, ShouldEqual, 4)
				So(kim.Bias, ShouldEqual, 66.7)
				So(got.Rows[1].Bias, ShouldEqual, 0)
			})

			Convey("Then the overall row ignores unknown dates in the bias", func() {
				So(got.Overall.Total, ShouldEqual, 5)
				So(got.Overall.Unknown, ShouldEqual, 1)
				So(got.Overall.Bias, ShouldEqual, 50)
			})
		})

		Convey("When grouped by squad", func() {
			got := reports.RelativeAge(athletes, reports.GroupBySquad)
			So(got.GroupBy, ShouldEqual, reports.GroupBySquad)
			So(got.Rows[0].Group, ShouldEqual, "U14")
			So(got.Rows[0].Bias, ShouldEqual, 100)
		})

		Convey("When the athlete list is empty", func() {
			got := reports.RelativeAge(nil, reports.GroupByCoach)
			So(got.Rows, ShouldBeEmpty)
			So(got.Overall.Total, ShouldEqual, 0)
			So(got.Overall.Bias, ShouldEqual, 0)
		})
	})

	Convey("Given grouping names from a query string", t, func() {
		g, ok := reports.ParseGroupBy("")
		So(ok, ShouldBeTrue)
		So(g, ShouldEqual, reports.GroupByCoach)
		_, ok = reports.ParseGroupBy("position")
		So(ok, ShouldBeFalse)
	})
}

func TestGrowth(t *testing.T) {
	Convey("Given athletes with height histories", t, func() {
		athletes := []model.Athlete{
			{ID: "a", Name: "Ada", HeightSamples: []model.HeightSample{
				{Date: "2023-01-10", Value: 150}, {Date: "2023-07-10", Value: 154},
			}},
			{ID: "b", Name: "Bo", HeightSamples: []model.HeightSample{{Date: "2023-01-10", Value: 160}}},
			{ID: "c", Name: "Cy", HeightSamples: []model.HeightSample{
				{Date: "2023-01-10", Value: 150}, {Date: "2024-01-10", Value: 155.5},
			}},
		}

		got := reports.Growth(athletes)

		Convey("Then velocity and stage follow the last two samples", func() {
			So(got.Rows[0].Velocity, ShouldEqual, 8)
			So(got.Rows[0].Stage, ShouldEqual, reports.StagePeak)
			So(got.Rows[0].Height, ShouldEqual, 154)
			So(got.Rows[1].Velocity, ShouldEqual, 0)
			So(got.Rows[1].Stage, ShouldEqual, reports.StageStable)
			So(got.Rows[1].Height, ShouldEqual, 160)
			So(got.Rows[2].Velocity, ShouldEqual, 5.5)
			So(got.Rows[2].Stage, ShouldEqual, reports.StageApproaching)
		})

		Convey("Then stage counts add up", func() {
			So(got.Stages, ShouldResemble, map[string]int{"peak": 1, "approaching": 1, "stable": 1})
		})
	})

	Convey("Given a velocity just under the peak cutoff", t, func() {
		got := reports.Growth([]model.Athlete{{ID: "d", Name: "Di", HeightSamples: []model.HeightSample{
			{Date: "2023-01-10", Value: 150}, {Date: "2024-01-10", Value: 156.96},
		}}})

		Convey("Then the stage uses the unrounded velocity", func() {
			So(got.Rows[0].Velocity, ShouldEqual, 7.0)
			So(got.Rows[0].Stage, ShouldEqual, reports.StageApproaching)
		})
	})
}

func TestReadiness(t *testing.T) {
	Convey("Given a roster with readiness and sessions", t, func() {
		athletes := []model.Athlete{
			{ID: "a", Squad: "U14", Readiness: 85, Engagement: 70, Trust: 90,
				ReadinessHistory: []float64{60, 62, 61, 59}, SessionsPlanned: 10, SessionsCompleted: 8, Watchlist: true},
			{ID: "b", Squad: "U14", Readiness: 60, Engagement: 50, Trust: 70},
			{ID: "c", Squad: "U16", Readiness: 40, ReadinessHistory: []float64{40}},
		}

		got := reports.Readiness(athletes)

		Convey("Then each athlete gets trend, adherence and tier", func() {
			So(got.Rows[0].Trend, ShouldEqual, -2)
			So(got.Rows[0].Adherence, ShouldEqual, 80)
			So(got.Rows[0].Tier, ShouldEqual, "green")
			So(got.Rows[1].Adherence, ShouldEqual, 0)
			So(got.Rows[1].Tier, ShouldEqual, "amber")
			So(got.Rows[2].Trend, ShouldEqual, 0)
			So(got.Rows[2].Tier, ShouldEqual, "red")
		})

		Convey("Then squads are averaged", func() {
			So(got.Squads, ShouldHaveLength, 2)
			So(got.Squads[0], ShouldResemble, reports.SquadReadiness{
				Squad: "U14", Athletes: 2, Readiness: 72.5, Engagement: 60, Trust: 80, Adherence: 40,
			})
			So(got.Watchlist, ShouldEqual, 1)
			So(got.Average, ShouldEqual, 61.7)
		})
	})
}

func TestCompliance(t *testing.T) {
	Convey("Given decisions with due dates", t, func() {
		now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		past := now.Add(-48 * time.Hour)
		future := now.Add(48 * time.Hour)
		decisions := []model.Decision{
			{ID: "1", Status: model.StatusDone, Due: &past},
			{ID: "2", Status: model.StatusPlanned, Due: &past},
			{ID: "3", Status: model.StatusInProgress, Due: &future},
			{ID: "4", Status: model.StatusPlanned},
		}

		got := reports.Compliance(decisions, now)

		Convey("Then unfinished past-due items count as overdue", func() {
			So(got.Total, ShouldEqual, 4)
			So(got.ByStatus[model.StatusDone], ShouldEqual, 1)
			So(got.ByStatus[model.StatusOverdue], ShouldEqual, 1)
			So(got.ByStatus[model.StatusInProgress], ShouldEqual, 1)
			So(got.ByStatus[model.StatusPlanned], ShouldEqual, 1)
			So(got.PercentDone, ShouldEqual, 25)
			So(got.PercentOverdue, ShouldEqual, 25)
		})

		Convey("Then the stored status is left alone", func() {
			So(decisions[1].Status, ShouldEqual, model.StatusPlanned)
		})
	})

	Convey("Given an empty log", t, func() {
		got := reports.Compliance(nil, time.Now())
		So(got.Total, ShouldEqual, 0)
		So(got.PercentDone, ShouldEqual, 0)
		So(got.ByStatus, ShouldHaveLength, 4)
	})
}

func TestReputation(t *testing.T) {
	Convey("Given clubs scored on three categories", t, func() {
		cats := func(coaching, facilities, community float64) []model.Category {
			return []model.Category{
				{Name: "coaching", Score: coaching, Weight: 0.5},
				{Name: "facilities", Score: facilities, Weight: 0.3},
				{Name: "community", Score: community, Weight: 0.2},
			}
		}
		clubs := []model.Club{
			{ID: "north", Name: "North", Categories: cats(82, 73, 67), Demographics: map[string]int{"u14": 20, "u16": 15}},
			{ID: "south", Name: "South", Categories: cats(95, 90, 85)},
			{ID: "east", Name: "East", Categories: cats(82, 73, 67)},
			{ID: "west", Name: "West", Categories: []model.Category{{Name: "coaching", Score: 50, Weight: 1}}},
		}
		tiers := reports.ReputationTiers(90, 75)

		Convey("When ranked without overrides", func() {
			got := reports.Reputation(clubs, nil, tiers)

			Convey("Then rows are ordered by dense rank with tiers", func() {
				So(got.Rows, ShouldHaveLength, 4)
				So(got.Rows[0], ShouldResemble, reports.ReputationRow{ClubID: "south", Name: "South", Score: 91.5, Tier: "gold", Rank: 1})
				So(got.Rows[1].ClubID, ShouldEqual, "east")
				So(got.Rows[1].Rank, ShouldEqual, 2)
				So(got.Rows[2].ClubID, ShouldEqual, "north")
				So(got.Rows[2].Rank, ShouldEqual, 2)
				So(got.Rows[2].Score, ShouldEqual, 76.3)
				So(got.Rows[2].Tier, ShouldEqual, "amber")
				So(got.Rows[2].Members, ShouldEqual, 35)
				So(got.Rows[3].Rank, ShouldEqual, 3)
				So(got.Rows[3].Tier, ShouldEqual, "risk")
			})
		})

		Convey("When a weight override is configured", func() {
			score := reports.ClubScore(clubs[0], map[string]float64{"coaching": 1})
			So(score, ShouldAlmostEqual, 117.3, 1e-9)
		})

		Convey("When scores sit on either side of a cutoff", func() {
			edge := []model.Club{
				{ID: "under", Name: "Under", Categories: []model.Category{{Name: "coaching", Score: 89.96, Weight: 1}}},
				{ID: "at", Name: "At", Categories: []model.Category{{Name: "coaching", Score: 90, Weight: 1}}},
				{ID: "just", Name: "Just", Categories: []model.Category{{Name: "coaching", Score: 74.99, Weight: 1}}},
			}
			got := reports.Reputation(edge, nil, tiers)

			Convey("Then tiers and ranks use the unrounded score", func() {
				So(got.Rows[0], ShouldResemble, reports.ReputationRow{ClubID: "at", Name: "At", Score: 90, Tier: "gold", Rank: 1})
				So(got.Rows[1], ShouldResemble, reports.ReputationRow{ClubID: "under", Name: "Under", Score: 90, Tier: "amber", Rank: 2})
				So(got.Rows[2].Score, ShouldEqual, 75.0)
				So(got.Rows[2].Tier, ShouldEqual, "risk")
			})
		})

		Convey("When there are no clubs", func() {
			got := reports.Reputation(nil, nil, tiers)
			So(got.Rows, ShouldBeEmpty)
			So(got.Average, ShouldEqual, 0)
		})
	})
}
