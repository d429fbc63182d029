package standings_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func result(home, away string, hg, ag int) standings.Result {
	return standings.Result{HomeID: home, HomeName: home, AwayID: away, AwayName: away, HomeGoals: hg, AwayGoals: ag}
}

func TestTable(t *testing.T) {
	Convey("Given an empty table", t, func() {
		table := standings.NewTable()

		Convey("When a home win is recorded", func() {
			table.Record(result("Brann", "Molde", 2, 1))

			Convey("Then both rows reflect it", func() {
				brann, ok := table.Row("Brann")
				So(ok, ShouldBeTrue)
				So(brann, ShouldResemble, standings.Row{
					TeamID: "Brann", Team: "Brann", Played: 1, Won: 1,
					GoalsFor: 2, GoalsAgainst: 1, GoalDifference: 1, Points: 3,
				})
				molde, _ := table.Row("Molde")
				So(molde.Lost, ShouldEqual, 1)
				So(molde.Points, ShouldEqual, 0)
				So(molde.GoalDifference, ShouldEqual, -1)
				So(table.Matches, ShouldEqual, 1)
			})
		})

		Convey("When a draw is recorded", func() {
			table.Record(result("Brann", "Molde", 1, 1))

			brann, _ := table.Row("Brann")
			molde, _ := table.Row("Molde")
			So(brann.Points, ShouldEqual, 1)
			So(molde.Points, ShouldEqual, 1)
			So(molde.Drawn, ShouldEqual, 1)
		})

		Convey("When several results are recorded", func() {
			table.Record(result("Brann", "Molde", 3, 0))
			table.Record(result("Lyn", "Odd", 1, 0))
			table.Record(result("Odd", "Molde", 2, 2))
			table.Record(result("Alta", "Bodø", 1, 0))

			Convey("Then rows sort by points, goal difference, goals and name", func() {
				var order []string
				for _, r := range table.Sorted() {
					order = append(order, r.Team)
				}
				So(order, ShouldResemble, []string{"Brann", "Alta", "Lyn", "Odd", "Molde", "Bodø"})
			})
		})

		Convey("When the zero value is used", func() {
			var zero standings.Table
			zero.Record(result("A", "B", 0, 0))

			So(zero.Sorted(), ShouldHaveLength, 2)
		})
	})
}
