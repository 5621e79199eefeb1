package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/courtevo/vero/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a key is recorded for the first time", func() {
			id, seen := d.SeenAndRecord(ctx, "key-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(id, ShouldBeEmpty)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same key is replayed after binding", func() {
			d.SeenAndRecord(ctx, "key-1")
			d.Bind(ctx, "key-1", "athlete-42")
			id, seen := d.SeenAndRecord(ctx, "key-1")

			Convey("Then the bound record id comes back", func() {
				So(seen, ShouldBeTrue)
				So(id, ShouldEqual, "athlete-42")
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the key is replayed while the first request is in flight", func() {
			d.SeenAndRecord(ctx, "key-1")
			id, seen := d.SeenAndRecord(ctx, "key-1")

			Convey("Then it is seen without an id", func() {
				So(seen, ShouldBeTrue)
				So(id, ShouldBeEmpty)
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "key-1")
			d.Unrecord(ctx, "key-1")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				_, seen := d.SeenAndRecord(ctx, "key-1")
				So(seen, ShouldBeFalse)
			})
		})

		Convey("When binding an unknown key", func() {
			d.Bind(ctx, "missing", "x")

			Convey("Then nothing is recorded", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, k := range []string{"k1", "k2", "k3"} {
			d.SeenAndRecord(ctx, k)
		}

		Convey("When a fourth key arrives", func() {
			_, seen := d.SeenAndRecord(ctx, "k4")

			Convey("Then the oldest key is evicted", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)

				_, seen = d.SeenAndRecord(ctx, "k3")
				So(seen, ShouldBeTrue)
				_, seen = d.SeenAndRecord(ctx, "k2")
				So(seen, ShouldBeTrue)
				_, seen = d.SeenAndRecord(ctx, "k1")
				So(seen, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		const n = 1000
		for i := 0; i < n; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
		}

		Convey("Then every key is kept", func() {
			So(d.Size(), ShouldEqual, int64(n))
			_, seen := d.SeenAndRecord(ctx, "key-0")
			So(seen, ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given concurrent creates sharing one key", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(100))
		const workers = 20

		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, seen := d.SeenAndRecord(context.Background(), "double-click"); !seen {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one request wins", func() {
			So(fresh, ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
