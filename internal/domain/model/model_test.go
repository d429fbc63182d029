package model_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPosition(t *testing.T) {
	Convey("Given the known positions", t, func() {
		Convey("Then exactly ST, CF, LW, RW and CAM should be attacking", func() {
			var attacking []model.Position
			for _, p := range model.Positions {
				if p.IsAttacking() {
					attacking = append(attacking, p)
				}
			}
			So(attacking, ShouldResemble, []model.Position{
				model.PositionCAM, model.PositionLW, model.PositionRW, model.PositionST, model.PositionCF,
			})
		})

		Convey("Then unknown positions should be invalid", func() {
			So(model.PositionGK.Valid(), ShouldBeTrue)
			So(model.Position("SW").Valid(), ShouldBeFalse)
		})
	})
}

func TestTeam(t *testing.T) {
	Convey("Given a team with a goalkeeper", t, func() {
		team := model.Team{
			ID:   "t1",
			Name: "Team",
			Starters: []model.Player{
				{ID: "p1", Position: model.PositionCB},
				{ID: "gk", Position: model.PositionGK},
			},
			Tactics: &model.Tactics{Tempo: "fast"},
		}

		Convey("When looking up the goalkeeper", func() {
			gk, ok := team.Goalkeeper()

			Convey("Then the first GK starter should be returned", func() {
				So(ok, ShouldBeTrue)
				So(gk.ID, ShouldEqual, "gk")
			})
		})

		Convey("When cloning the team", func() {
			c := team.Clone()
			c.Starters[0].ID = "changed"
			c.Tactics.Tempo = "slow"

			Convey("Then the original should be untouched", func() {
				So(team.Starters[0].ID, ShouldEqual, "p1")
				So(team.Tactics.Tempo, ShouldEqual, "fast")
			})
		})
	})

	Convey("Given a team without a goalkeeper", t, func() {
		team := model.Team{Starters: []model.Player{{ID: "p1", Position: model.PositionST}}}

		Convey("Then no goalkeeper should be found", func() {
			_, ok := team.Goalkeeper()
			So(ok, ShouldBeFalse)
		})
	})
}
