package eventbus_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/matchday/internal/domain/eventbus"
	"github.com/okian/matchday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBus(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bus with a JSON logger", t, func() {
		var buf bytes.Buffer
		log, err := logger.New(logger.Options{Format: logger.FormatJSON, Writer: &buf})
		So(err, ShouldBeNil)
		bus := eventbus.New(eventbus.WithLogger(log))

		Convey("When listeners subscribe to a topic", func() {
			var got []string
			bus.On("greeting", func(_ context.Context, data any) error {
				got = append(got, "first:"+data.(string))
				return nil
			})
			bus.On("greeting", func(_ context.Context, data any) error {
				got = append(got, "second:"+data.(string))
				return nil
			})
			bus.On("other", func(context.Context, any) error {
				got = append(got, "other")
				return nil
			})

			failed := bus.Emit(ctx, "greeting", "hi")

			Convey("Then only that topic's listeners run, in order", func() {
				So(failed, ShouldEqual, 0)
				So(got, ShouldResemble, []string{"first:hi", "second:hi"})
				So(bus.ListenerCount("greeting"), ShouldEqual, 2)
			})
		})

		Convey("When a topic has no listeners", func() {
			So(bus.Emit(ctx, "nobody", nil), ShouldEqual, 0)
		})

		Convey("When a listener is removed", func() {
			calls := 0
			sub := bus.On("tick", func(context.Context, any) error { calls++; return nil })

			So(bus.Off(sub), ShouldBeTrue)
			So(bus.Off(sub), ShouldBeFalse)
			bus.Emit(ctx, "tick", nil)

			Convey("Then it is no longer called", func() {
				So(calls, ShouldEqual, 0)
				So(bus.ListenerCount("tick"), ShouldEqual, 0)
			})
		})

		Convey("When listeners fail or panic", func() {
			reached := false
			bus.On("boom", func(context.Context, any) error { return errors.New("listener broke") })
			bus.On("boom", func(context.Context, any) error { panic("kaput") })
			bus.On("boom", func(context.Context, any) error { reached = true; return nil })

			failed := bus.Emit(ctx, "boom", 1)

			Convey("Then later listeners still run and failures are logged", func() {
				So(failed, ShouldEqual, 2)
				So(reached, ShouldBeTrue)
				So(buf.String(), ShouldContainSubstring, "listener broke")
				So(buf.String(), ShouldContainSubstring, "kaput")
				So(buf.String(), ShouldContainSubstring, `"topic":"boom"`)
			})
		})

		Convey("When a listener unsubscribes itself during emit", func() {
			calls := 0
			var sub eventbus.Subscription
			sub = bus.On("once", func(context.Context, any) error {
				calls++
				bus.Off(sub)
				return nil
			})

			bus.Emit(ctx, "once", nil)
			bus.Emit(ctx, "once", nil)

			So(calls, ShouldEqual, 1)
		})

		Convey("When emitting from many goroutines", func() {
			var mu sync.Mutex
			count := 0
			bus.On("n", func(context.Context, any) error {
				mu.Lock()
				count++
				mu.Unlock()
				return nil
			})

			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					bus.Emit(ctx, "n", nil)
				}()
			}
			wg.Wait()

			So(count, ShouldEqual, 50)
		})
	})
}
