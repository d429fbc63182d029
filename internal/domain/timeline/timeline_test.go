package timeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/timeline"
	"github.com/okian/matchday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func ids(moments []*timeline.Moment) []string {
	out := make([]string, 0, len(moments))
	for _, m := range moments {
		out = append(out, m.ID)
	}
	return out
}

func noop(context.Context, *timeline.Moment) error { return nil }

func TestTimelineRegistration(t *testing.T) {
	Convey("Given a timeline starting on January 1st", t, func() {
		tl := timeline.New(day(1))

		Convey("When no start date is given", func() {
			Convey("Then the clock starts now", func() {
				before := time.Now()
				So(timeline.New(time.Time{}).CurrentDate(), ShouldHappenOnOrAfter, before)
			})
		})

		Convey("When two moments share a calendar day at different times", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "late", Date: day(3).Add(20 * time.Hour)})
			tl.RegisterMoment(&timeline.Moment{ID: "early", Date: day(3).Add(time.Hour)})

			Convey("Then they share a bucket in registration order", func() {
				So(ids(tl.MomentsForDate(day(3))), ShouldResemble, []string{"late", "early"})
				So(tl.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a moment is removed", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "a", Date: day(2)})
			tl.RegisterMoment(&timeline.Moment{ID: "b", Date: day(2)})

			Convey("Then an unknown id leaves everything in place", func() {
				So(tl.RemoveMoment("missing"), ShouldBeFalse)
				So(ids(tl.MomentsForDate(day(2))), ShouldResemble, []string{"a", "b"})
			})

			Convey("Then a known id is gone from its date", func() {
				So(tl.RemoveMoment("a"), ShouldBeTrue)
				So(ids(tl.MomentsForDate(day(2))), ShouldResemble, []string{"b"})
				So(tl.RemoveMoment("a"), ShouldBeFalse)
			})

			Convey("Then emptying a bucket moves a recreated bucket to the end", func() {
				tl.RegisterMoment(&timeline.Moment{ID: "c", Date: day(5)})
				So(tl.RemoveMoment("a"), ShouldBeTrue)
				So(tl.RemoveMoment("b"), ShouldBeTrue)
				tl.RegisterMoment(&timeline.Moment{ID: "d", Date: day(2)})

				So(ids(tl.AllMoments()), ShouldResemble, []string{"c", "d"})
			})
		})

		Convey("When moments are tagged", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "a", Date: day(4), Tags: []string{"fixture"}})
			tl.RegisterMoment(&timeline.Moment{ID: "b", Date: day(2), Tags: []string{"transfer"}})
			tl.RegisterMoment(&timeline.Moment{ID: "c", Date: day(2), Tags: []string{"fixture", "derby"}})

			Convey("Then lookup by tag follows bucket first-seen order", func() {
				So(ids(tl.MomentsByTag("fixture")), ShouldResemble, []string{"a", "c"})
				So(tl.MomentsByTag("none"), ShouldBeEmpty)
			})
		})

		Convey("When a moment is resolved", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "a", Date: day(2)})
			tl.RegisterMoment(&timeline.Moment{ID: "b", Date: day(2)})

			So(tl.ResolveMoment("a"), ShouldBeTrue)
			So(tl.ResolveMoment("missing"), ShouldBeFalse)

			Convey("Then it is excluded from the unresolved views only", func() {
				So(ids(tl.UnresolvedMomentsForDate(day(2))), ShouldResemble, []string{"b"})
				So(ids(tl.UnresolvedMoments()), ShouldResemble, []string{"b"})
				So(ids(tl.MomentsForDate(day(2))), ShouldResemble, []string{"a", "b"})

				m, ok := tl.Moment("a")
				So(ok, ShouldBeTrue)
				So(m.Resolved, ShouldBeTrue)
			})
		})

		Convey("When a returned moment is modified", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "kept", Date: day(2), Tags: []string{"fixture"}})
			got := tl.MomentsForDate(day(2))
			got[0].Resolved = true
			got[0].Tags[0] = "changed"
			byID, _ := tl.Moment("kept")
			byID.Resolved = true
			tl.AdvanceTime(1)[0].Resolved = true

			Convey("Then the stored moment is unchanged", func() {
				stored, ok := tl.Moment("kept")
				So(ok, ShouldBeTrue)
				So(stored.Resolved, ShouldBeFalse)
				So(stored.Tags, ShouldResemble, []string{"fixture"})
				So(ids(tl.UnresolvedMoments()), ShouldResemble, []string{"kept"})
			})
		})
	})
}

func TestTimelineAdvance(t *testing.T) {
	Convey("Given a timeline starting on January 1st", t, func() {
		tl := timeline.New(day(1))

		Convey("When a moment is due on January 5th", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "m1", Date: day(5), Callback: noop})

			Convey("Then it is not returned before its day is reached", func() {
				So(tl.AdvanceTime(3), ShouldBeEmpty)
				So(tl.CurrentDate(), ShouldEqual, day(4))

				Convey("And it is returned exactly once when reached", func() {
					So(ids(tl.AdvanceTime(1)), ShouldResemble, []string{"m1"})
					So(tl.AdvanceTime(10), ShouldBeEmpty)
				})
			})
		})

		Convey("When moments are registered out of date order", func() {
			tl.RegisterMoment(&timeline.Moment{ID: "jan4", Date: day(4)})
			tl.RegisterMoment(&timeline.Moment{ID: "jan2", Date: day(2)})
			tl.RegisterMoment(&timeline.Moment{ID: "jan3", Date: day(3)})

			Convey("Then advancing returns them chronologically", func() {
				So(ids(tl.AdvanceTime(5)), ShouldResemble, []string{"jan2", "jan3", "jan4"})
				So(tl.CurrentDate(), ShouldEqual, day(6))
			})
		})

		Convey("When a reached moment is already resolved", func() {
			called := false
			tl.RegisterMoment(&timeline.Moment{ID: "done", Date: day(2), Resolved: true,
				Callback: func(context.Context, *timeline.Moment) error { called = true; return nil }})

			Convey("Then it is still returned but never fired by advancing", func() {
				So(ids(tl.AdvanceTime(2)), ShouldResemble, []string{"done"})
				So(called, ShouldBeFalse)
			})
		})

		Convey("When a moment lies in the past", func() {
			tl := timeline.New(day(10))
			tl.RegisterMoment(&timeline.Moment{ID: "past", Date: day(5)})

			So(tl.AdvanceTime(1), ShouldBeEmpty)
		})

		Convey("When advancing zero or negative days", func() {
			So(tl.AdvanceTime(0), ShouldBeEmpty)
			So(tl.AdvanceTime(-3), ShouldBeEmpty)
			So(tl.CurrentDate(), ShouldEqual, day(1))
		})

		Convey("When advancing across a month boundary", func() {
			tl := timeline.New(time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC))
			tl.RegisterMoment(&timeline.Moment{ID: "feb", Date: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)})

			So(ids(tl.AdvanceTime(1)), ShouldResemble, []string{"feb"})
		})
	})
}

func TestTimelineFire(t *testing.T) {
	Convey("Given moments whose callbacks fail in different ways", t, func() {
		var buf bytes.Buffer
		log, err := logger.New(logger.Options{Format: logger.FormatJSON, Writer: &buf})
		So(err, ShouldBeNil)
		tl := timeline.New(day(1), timeline.WithLogger(log))

		var order []string
		record := func(id string, fail error, boom bool) *timeline.Moment {
			return &timeline.Moment{ID: id, Date: day(2), Description: id + " description",
				Callback: func(context.Context, *timeline.Moment) error {
					order = append(order, id)
					if boom {
						panic("kaboom")
					}
					return fail
				}}
		}
		moments := []*timeline.Moment{
			record("ok-1", nil, false),
			record("err", errors.New("broken"), false),
			record("panic", nil, true),
			record("ok-2", nil, false),
			{ID: "silent", Date: day(2)},
		}
		for _, m := range moments {
			tl.RegisterMoment(m)
		}

		Convey("When they are fired", func() {
			report := tl.FireMoments(context.Background(), tl.AdvanceTime(1))

			Convey("Then every callback runs in order and failures are isolated", func() {
				So(order, ShouldResemble, []string{"ok-1", "err", "panic", "ok-2"})
				So(report, ShouldResemble, timeline.FireReport{Fired: 4, Failed: 2})
			})

			Convey("Then failures are logged with the moment description", func() {
				So(buf.String(), ShouldContainSubstring, "err description")
				So(buf.String(), ShouldContainSubstring, "moment callback panicked")
			})

			Convey("Then a moment without a callback is logged as skipped", func() {
				So(buf.String(), ShouldContainSubstring, "moment has no callback; skipped")
				So(buf.String(), ShouldContainSubstring, `"moment_id":"silent"`)
			})

			Convey("Then firing does not resolve anything", func() {
				So(tl.UnresolvedMoments(), ShouldHaveLength, 5)

				Convey("And resolving is explicit", func() {
					So(tl.ResolveMoments(moments[:2]), ShouldEqual, 2)
					So(tl.ResolveMoments([]*timeline.Moment{{ID: "ghost"}}), ShouldEqual, 0)
					So(tl.UnresolvedMoments(), ShouldHaveLength, 3)
				})
			})
		})
	})
}

func TestTimelineQuery(t *testing.T) {
	Convey("Given tagged moments over three days", t, func() {
		tl := timeline.New(day(1))
		tl.RegisterMoment(&timeline.Moment{ID: "a", Date: day(2), Tags: []string{"fixture"}})
		tl.RegisterMoment(&timeline.Moment{ID: "b", Date: day(2), Tags: []string{"transfer"}})
		tl.RegisterMoment(&timeline.Moment{ID: "c", Date: day(3), Tags: []string{"fixture"}, Resolved: true})
		tl.RegisterMoment(&timeline.Moment{ID: "d", Date: day(4), Tags: []string{"fixture"}})

		Convey("When the filter is empty", func() {
			So(ids(tl.Query(timeline.Filter{})), ShouldResemble, []string{"a", "b", "c", "d"})
		})

		Convey("When filtering by tag", func() {
			So(ids(tl.Query(timeline.Filter{Tag: "fixture"})), ShouldResemble, []string{"a", "c", "d"})
		})

		Convey("When filtering by tag and unresolved", func() {
			got := tl.Query(timeline.Filter{Tag: "fixture", UnresolvedOnly: true})
			So(ids(got), ShouldResemble, []string{"a", "d"})
		})

		Convey("When filtering by date ignoring the time of day", func() {
			got := tl.Query(timeline.Filter{Date: day(2).Add(15 * time.Hour)})
			So(ids(got), ShouldResemble, []string{"a", "b"})
		})

		Convey("When nothing matches", func() {
			So(tl.Query(timeline.Filter{Tag: "fixture", Date: day(9)}), ShouldBeEmpty)
		})

		Convey("Then the info counts every moment and the open ones", func() {
			info := tl.Info()
			So(info.CurrentDate, ShouldEqual, day(1))
			So(info.Moments, ShouldEqual, 4)
			So(info.Unresolved, ShouldEqual, 3)
		})
	})
}

func TestTimelineConcurrency(t *testing.T) {
	Convey("Given a timeline shared across goroutines", t, func() {
		tl := timeline.New(day(1))
		var wg sync.WaitGroup

		Convey("When moments are registered and read concurrently", func() {
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					tl.RegisterMoment(&timeline.Moment{ID: string(rune('a' + i)), Date: day(1 + i%5)})
				}(i)
				go func() {
					defer wg.Done()
					_ = tl.UnresolvedMoments()
				}()
			}
			wg.Wait()

			Convey("Then nothing is lost", func() {
				So(tl.Len(), ShouldEqual, 20)
			})
		})

		Convey("When moments are encoded while being resolved", func() {
			for i := 0; i < 50; i++ {
				tl.RegisterMoment(&timeline.Moment{ID: fmt.Sprintf("m%d", i), Date: day(2), Tags: []string{"fixture"}})
			}
			encodeErrs := make(chan error, 50)
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := json.Marshal(tl.Query(timeline.Filter{Tag: "fixture"}))
					encodeErrs <- err
				}()
				go func(i int) {
					defer wg.Done()
					tl.ResolveMoment(fmt.Sprintf("m%d", i))
				}(i)
			}
			wg.Wait()
			close(encodeErrs)

			Convey("Then every encode succeeds and every moment ends resolved", func() {
				for err := range encodeErrs {
					So(err, ShouldBeNil)
				}
				So(tl.UnresolvedMoments(), ShouldBeEmpty)
			})
		})
	})
}
