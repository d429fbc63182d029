package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/names"
	"github.com/okian/matchday/internal/domain/timeline"
	"github.com/okian/matchday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithWorkerCount(2),
		service.WithQueueSize(64),
		service.WithDatabasePath(":memory:"),
		service.WithSeed(7),
		service.WithLogger(logger.NewNop()),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it is not started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Bus(), ShouldBeNil)
		})

		Convey("Then operations report that it is not started", func() {
			ctx := context.Background()
			_, err := svc.SubmitMatch(ctx, model.MatchRequest{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.Standings(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.AdvanceTimeline(ctx, 1)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			So(svc.Stop(ctx), ShouldBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithMaxHistory(10),
		)

		Convey("Then the options are reported", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(stats["dedupeSize"], ShouldEqual, 25_000)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then it starts and reports its components", func() {
				So(err, ShouldBeNil)
				So(svc.Bus(), ShouldNotBeNil)

				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["matchesStored"], ShouldEqual, 0)
				So(stats["moments"], ShouldEqual, 0)
			})

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then it is marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service with an unsupported name corpus", t, func() {
		svc := newService(service.WithNames(names.Gender("robot"), names.Norway))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, names.ErrUnsupportedGender), ShouldBeTrue)
		})
	})
}

func TestService_Validation(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When a team has no name", func() {
			_, err := svc.SubmitMatch(ctx, model.MatchRequest{
				HomeTeam: model.Team{Name: "Brann"},
			})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When a team plays itself", func() {
			_, err := svc.SubmitMatch(ctx, model.MatchRequest{
				HomeTeam: model.Team{Name: "Brann"},
				AwayTeam: model.Team{Name: "brann"},
			})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When a formation is unknown", func() {
			_, err := svc.SubmitMatch(ctx, model.MatchRequest{
				HomeTeam: model.Team{Name: "Brann", Formation: "1-1-8"},
				AwayTeam: model.Team{Name: "Molde"},
			})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When a moment has no date", func() {
			_, err := svc.ScheduleMoment(ctx, model.MomentSpec{Name: "Deadline day"})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When the timeline is advanced by zero days", func() {
			_, err := svc.AdvanceTimeline(ctx, 0)
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When an unknown moment is removed or resolved", func() {
			So(errors.Is(svc.RemoveMoment(ctx, "nope"), service.ErrMomentNotFound), ShouldBeTrue)
			_, err := svc.ResolveMoment(ctx, "nope")
			So(errors.Is(err, service.ErrMomentNotFound), ShouldBeTrue)
		})

		Convey("When the fresh table is undone", func() {
			_, err := svc.UndoStandings(ctx)
			So(errors.Is(err, service.ErrNothingToUndo), ShouldBeTrue)
		})

		Convey("When a moment id is scheduled twice", func() {
			spec := model.MomentSpec{ID: "m1", Name: "Kickoff", Date: time.Now().AddDate(0, 0, 1)}
			_, err := svc.ScheduleMoment(ctx, spec)
			So(err, ShouldBeNil)

			_, err = svc.ScheduleMoment(ctx, spec)
			So(errors.Is(err, service.ErrMomentExists), ShouldBeTrue)
		})

		Convey("When moments are listed with a filter", func() {
			day := time.Date(2031, time.March, 3, 0, 0, 0, 0, time.UTC)
			_, err := svc.ScheduleMoment(ctx, model.MomentSpec{ID: "a", Name: "A", Date: day, Tags: []string{"cup"}})
			So(err, ShouldBeNil)
			_, err = svc.ScheduleMoment(ctx, model.MomentSpec{ID: "b", Name: "B", Date: day})
			So(err, ShouldBeNil)

			got, err := svc.Moments(ctx, timeline.Filter{Tag: "cup"})
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, "a")

			So(svc.RemoveMoment(ctx, "a"), ShouldBeNil)
			info, err := svc.TimelineInfo(ctx)
			So(err, ShouldBeNil)
			So(info.Moments, ShouldEqual, 1)
		})
	})
}
