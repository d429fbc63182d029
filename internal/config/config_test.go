package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/matchday/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.EventsPerMinute, convey.ShouldEqual, 3)
			convey.So(cfg.MatchDuration, convey.ShouldEqual, 90)
			convey.So(cfg.MaxHistorySize, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then an empty start date means now", func() {
			d, err := cfg.StartDate()
			convey.So(err, convey.ShouldBeNil)
			convey.So(d.IsZero(), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad fields", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"too many events", func(c *config.Config) { c.EventsPerMinute = 50 }},
			{"bad start date", func(c *config.Config) { c.TimelineStart = "01/02/2025" }},
			{"unknown country", func(c *config.Config) { c.NameCountry = "mars" }},
			{"empty database", func(c *config.Config) { c.DatabasePath = "" }},
		}
		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)

				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("When a start date is set", func() {
			cfg := config.New()
			cfg.TimelineStart = "2025-08-01"
			d, err := cfg.StartDate()

			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Year(), convey.ShouldEqual, 2025)
			convey.So(d.Month(), convey.ShouldEqual, time.August)
			convey.So(d.Day(), convey.ShouldEqual, 1)
		})
	})
}
