package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/valuescore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a new Deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New[int]()
		calls := 0
		next := func() int { calls++; return calls * 10 }

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is used for the first time", func() {
			v, replayed := d.Do(ctx, "k1", next)

			Convey("Then fn runs and its value is recorded", func() {
				So(v, ShouldEqual, 10)
				So(replayed, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And repeating the key replays the first value", func() {
				v, replayed := d.Do(ctx, "k1", next)
				So(v, ShouldEqual, 10)
				So(replayed, ShouldBeTrue)
				So(calls, ShouldEqual, 1)
			})

			Convey("And a forgotten key runs again", func() {
				d.Forget(ctx, "k1")
				v, replayed := d.Do(ctx, "k1", next)
				So(v, ShouldEqual, 20)
				So(replayed, ShouldBeFalse)
			})
		})

		Convey("When the key is empty", func() {
			d.Do(ctx, "", next)
			v, replayed := d.Do(ctx, "", next)

			Convey("Then fn runs every time and nothing is recorded", func() {
				So(v, ShouldEqual, 20)
				So(replayed, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDeduperBounded(t *testing.T) {
	Convey("Given a deduper bounded to three keys", t, func() {
		ctx := context.Background()
		d := dedupe.New[string](dedupe.WithMaxSize(3))
		for i := 0; i < 4; i++ {
			key := fmt.Sprintf("k%d", i)
			d.Do(ctx, key, func() string { return key })
		}

		Convey("Then the oldest key was evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			_, replayed := d.Do(ctx, "k0", func() string { return "again" })
			So(replayed, ShouldBeFalse)
			_, replayed = d.Do(ctx, "k3", func() string { return "again" })
			So(replayed, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New[int](dedupe.WithMaxSize(0))
		for i := 0; i < 2000; i++ {
			d.Do(ctx, fmt.Sprint(i), func() int { return i })
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 2000)
		})
	})
}

func TestDeduperConcurrent(t *testing.T) {
	Convey("Given concurrent callers sharing one key", t, func() {
		ctx := context.Background()
		d := dedupe.New[int]()
		var mu sync.Mutex
		runs := 0

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.Do(ctx, "same", func() int {
					mu.Lock()
					defer mu.Unlock()
					runs++
					return runs
				})
			}()
		}
		wg.Wait()

		Convey("Then fn ran exactly once", func() {
			So(runs, ShouldEqual, 1)
		})
	})
}
