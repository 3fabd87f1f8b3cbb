package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/presion/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(day int, systolic int) model.Record {
	return model.Record{
		Date:      time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		Time:      "08:00",
		Systolic:  systolic,
		Diastolic: 80,
		Pulse:     70,
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded memory store", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(rec(15, 120), rec(16, 110))

		Convey("When appending a record", func() {
			So(store.Append(ctx, rec(14, 130)), ShouldBeNil)

			Convey("Then reads return insertion order", func() {
				all, err := store.All(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)
				So(all[0].Systolic, ShouldEqual, 120)
				So(all[2].Systolic, ShouldEqual, 130)
				So(store.Len(), ShouldEqual, 3)
			})
		})

		Convey("When a caller mutates the result", func() {
			all, err := store.All(ctx)
			So(err, ShouldBeNil)
			all[0].Systolic = 999

			Convey("Then the stored record is unchanged", func() {
				again, _ := store.All(ctx)
				So(again[0].Systolic, ShouldEqual, 120)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then both operations fail with their kind", func() {
				So(errors.Is(store.Append(cctx, rec(1, 1)), ErrAppend), ShouldBeTrue)
				_, err := store.All(cctx)
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
				So(store.Len(), ShouldEqual, 2)
			})
		})

		Convey("When many appends run at once", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = store.Append(ctx, rec(20, 100))
				}()
			}
			wg.Wait()

			Convey("Then none is lost", func() {
				So(store.Len(), ShouldEqual, 52)
			})
		})
	})
}
