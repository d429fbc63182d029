package match_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/match"
	. "github.com/smartystreets/goconvey/convey"
)

// stubGenerator produces a fixed event type and records how often it ran.
type stubGenerator struct {
	eligible bool
	produce  bool
	kind     match.EventType
	chain    int
	calls    *int
}

func (g stubGenerator) CanGenerate(match.EventContext) bool { return g.eligible }

func (g stubGenerator) Generate(ctx match.EventContext) *match.MatchEvent {
	if g.calls != nil {
		*g.calls++
	}
	if !g.produce {
		return nil
	}
	return &match.MatchEvent{Type: g.kind, Minute: ctx.CurrentState.Minute, ResultingState: ctx.CurrentState}
}

// chainingGenerator always offers several follow-ups.
type chainingGenerator struct{ stubGenerator }

func (g chainingGenerator) ChainedEvents(*match.MatchEvent, match.EventContext) []*match.MatchEvent {
	var out []*match.MatchEvent
	for i := range g.chain {
		out = append(out, &match.MatchEvent{Type: match.EventSave, Description: string(rune('a' + i))})
	}
	return out
}

func TestEngine(t *testing.T) {
	Convey("Given an empty engine", t, func() {
		engine := match.NewEngine(script())

		Convey("When nothing is registered", func() {
			So(engine.GenerateEvent(liveState(match.ZoneMiddleThird)), ShouldBeNil)
		})

		Convey("When minting ids", func() {
			Convey("Then they count up from one per engine", func() {
				So(engine.NextID(), ShouldEqual, "event-1")
				So(engine.NextID(), ShouldEqual, "event-2")
				So(match.NewEngine(script()).NextID(), ShouldEqual, "event-1")
			})
		})

		Convey("When a type is registered twice", func() {
			engine.Register(match.EventPass, stubGenerator{})
			engine.Register(match.EventShot, stubGenerator{})
			engine.Register(match.EventPass, stubGenerator{eligible: true, produce: true, kind: match.EventPass})

			Convey("Then the last registration wins and keeps the first position", func() {
				So(engine.Registered(), ShouldResemble, []match.EventType{match.EventPass, match.EventShot})
				event := engine.GenerateEvent(liveState(match.ZoneMiddleThird))
				So(event, ShouldNotBeNil)
				So(event.Type, ShouldEqual, match.EventPass)
			})
		})
	})

	Convey("Given several eligible generators", t, func() {
		Convey("When the selection draw falls in the second slot", func() {
			engine := match.NewEngine(script(0.42, 0.5))
			engine.Register(match.EventPass, stubGenerator{eligible: true, produce: true, kind: match.EventPass})
			engine.Register(match.EventShot, stubGenerator{eligible: false, produce: true, kind: match.EventShot})
			engine.Register(match.EventGoal, stubGenerator{eligible: true, produce: true, kind: match.EventGoal})

			Convey("Then ineligible generators are skipped in order", func() {
				So(engine.GenerateEvent(liveState(match.ZoneMiddleThird)).Type, ShouldEqual, match.EventGoal)
			})
		})

		Convey("When the chosen generator declines", func() {
			var declined, other int
			engine := match.NewEngine(script(0.1, 0))
			engine.Register(match.EventPass, stubGenerator{eligible: true, produce: false, calls: &declined})
			engine.Register(match.EventShot, stubGenerator{eligible: true, produce: true, kind: match.EventShot, calls: &other})

			Convey("Then no other generator is tried", func() {
				So(engine.GenerateEvent(liveState(match.ZoneMiddleThird)), ShouldBeNil)
				So(declined, ShouldEqual, 1)
				So(other, ShouldEqual, 0)
			})
		})

		Convey("When the generator offers several follow-ups", func() {
			engine := match.NewEngine(script())
			engine.Register(match.EventShot, chainingGenerator{stubGenerator{eligible: true, produce: true, kind: match.EventShot, chain: 3}})

			Convey("Then only the first is attached", func() {
				event := engine.GenerateEvent(liveState(match.ZoneAwayBox))
				So(event.Chained, ShouldNotBeNil)
				So(event.Chained.Description, ShouldEqual, "a")
				So(event.Chained.Chained, ShouldBeNil)
			})
		})

		Convey("When the generator offers no follow-up", func() {
			engine := match.NewEngine(script())
			engine.Register(match.EventShot, chainingGenerator{stubGenerator{eligible: true, produce: true, kind: match.EventShot}})

			So(engine.GenerateEvent(liveState(match.ZoneAwayBox)).Chained, ShouldBeNil)
		})
	})

	Convey("Given the default engine", t, func() {
		engine := match.NewDefaultEngine(script())

		Convey("It registers pass, shot, goal and save in that order", func() {
			So(engine.Registered(), ShouldResemble, []match.EventType{match.EventPass, match.EventShot, match.EventGoal, match.EventSave})
		})

		Convey("When a shot is drawn in the away third and the roll is a goal", func() {
			// probability, pick shot (second of pass+shot), shooter, outcome roll
			engine := match.NewDefaultEngine(script(0.5, 0.75, 0, 0.9))
			event := engine.GenerateEvent(liveState(match.ZoneAwayThird))

			Convey("Then the goal is chained with the next id", func() {
				So(event.Type, ShouldEqual, match.EventShot)
				So(event.ID, ShouldEqual, "event-1")
				So(event.Chained, ShouldNotBeNil)
				So(event.Chained.Type, ShouldEqual, match.EventGoal)
				So(event.Chained.ID, ShouldEqual, "event-2")
			})
		})

		Convey("When play is stopped", func() {
			state := liveState(match.ZoneAwayBox)
			state.Phase = match.PhaseHalfTime

			So(engine.GenerateEvent(state), ShouldBeNil)
		})
	})
}
