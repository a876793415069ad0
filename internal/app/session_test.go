package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/valuescore/internal/adapters/repository"
	"github.com/okian/valuescore/internal/app"
	"github.com/okian/valuescore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 9, 10, 30, 0, 0, time.UTC) }

// flakyStore fails writes with err; reads always return an empty log.
type flakyStore struct {
	err   error
	saves int
}

func (f *flakyStore) Load(context.Context) ([]model.HistoryEntry, error) {
	return []model.HistoryEntry{}, nil
}

func (f *flakyStore) Save(context.Context, []model.HistoryEntry) error {
	f.saves++
	return f.err
}

// unreadableKV wraps a KV whose reads fail while readErr is set.
type unreadableKV struct {
	*repository.MemoryKV
	readErr error
	sets    int
}

func (u *unreadableKV) Get(ctx context.Context, key string) (string, bool, error) {
	if u.readErr != nil {
		return "", false, u.readErr
	}
	return u.MemoryKV.Get(ctx, key)
}

func (u *unreadableKV) Set(ctx context.Context, key, value string) error {
	u.sets++
	return u.MemoryKV.Set(ctx, key, value)
}

func newSession(kv repository.KV, opts ...app.Option) *app.Session {
	opts = append([]app.Option{
		app.WithStore(repository.NewHistoryRepository(kv)),
		app.WithClock(fixedNow),
	}, opts...)
	s, err := app.New(opts...)
	So(err, ShouldBeNil)
	return s
}

func TestSession_New(t *testing.T) {
	Convey("Given a session with default options", t, func() {
		s, err := app.New(app.WithClock(fixedNow), app.WithID("fixed"))
		So(err, ShouldBeNil)

		Convey("Then it covers the twelve categories at {1,1}", func() {
			So(s.Categories(), ShouldHaveLength, 12)
			rs := s.Ratings()
			So(rs, ShouldHaveLength, 12)
			for _, c := range s.Categories() {
				So(rs[c], ShouldResemble, model.RatingPair{Importance: 1, Match: 1})
			}
		})

		Convey("And the date is today's UTC date", func() {
			So(s.Date(), ShouldEqual, "2024-06-09")
		})

		Convey("And the history view starts hidden and empty", func() {
			So(s.HistoryVisible(), ShouldBeFalse)
			So(s.History(), ShouldBeEmpty)
		})

		Convey("And the id is the injected one", func() {
			So(s.ID(), ShouldEqual, "fixed")
		})
	})

	Convey("Given no explicit id", t, func() {
		a, _ := app.New()
		b, _ := app.New()

		Convey("Then each session gets a distinct generated id", func() {
			So(a.ID(), ShouldNotBeEmpty)
			So(a.ID(), ShouldNotEqual, b.ID())
		})
	})

	Convey("Given invalid construction options", t, func() {
		_, errDup := app.New(app.WithCategories([]model.Category{"a", "a"}))
		_, errRange := app.New(
			app.WithCategories([]model.Category{"a"}),
			app.WithInitialRatings(model.RatingSet{"a": {Importance: 0, Match: 5}}),
		)
		_, errKeys := app.New(
			app.WithCategories([]model.Category{"a"}),
			app.WithInitialRatings(model.RatingSet{"b": {Importance: 1, Match: 1}}),
		)

		Convey("Then construction fails", func() {
			So(errors.Is(errDup, model.ErrInvalidCategory), ShouldBeTrue)
			So(errors.Is(errRange, model.ErrRatingOutOfRange), ShouldBeTrue)
			So(errors.Is(errKeys, model.ErrUnknownCategory), ShouldBeTrue)
		})
	})
}

func TestSession_SetRating(t *testing.T) {
	Convey("Given a session", t, func() {
		ctx := context.Background()
		s := newSession(repository.NewMemoryKV())
		work := model.Category("工作")

		Convey("When importance of one category changes", func() {
			So(s.SetRating(ctx, work, model.FieldImportance, 8), ShouldBeNil)

			Convey("Then its match and every other pair stay the same", func() {
				rs := s.Ratings()
				So(rs[work], ShouldResemble, model.RatingPair{Importance: 8, Match: 1})
				for _, c := range s.Categories() {
					if c != work {
						So(rs[c], ShouldResemble, model.RatingPair{Importance: 1, Match: 1})
					}
				}
			})
		})

		Convey("When the value is out of range", func() {
			err := s.SetRating(ctx, work, model.FieldMatch, 0)

			Convey("Then it is rejected and nothing changes", func() {
				So(errors.Is(err, model.ErrRatingOutOfRange), ShouldBeTrue)
				So(s.Ratings()[work].Match, ShouldEqual, 1)
			})
		})

		Convey("When the category is unknown", func() {
			err := s.SetRating(ctx, "睡眠", model.FieldMatch, 5)
			So(errors.Is(err, model.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When a caller mutates a returned copy", func() {
			rs := s.Ratings()
			rs[work] = model.RatingPair{Importance: 10, Match: 10}

			Convey("Then session state is unaffected", func() {
				So(s.Ratings()[work], ShouldResemble, model.RatingPair{Importance: 1, Match: 1})
			})
		})
	})
}

func TestSession_Submit(t *testing.T) {
	Convey("Given a session over empty storage", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryKV()
		s := newSession(kv)

		Convey("When submitting the defaults", func() {
			r := s.Submit(ctx)

			Convey("Then the score is 1 and the entry is persisted", func() {
				So(r.TotalScore, ShouldEqual, 1)
				So(r.Persisted, ShouldBeTrue)
				So(r.Message, ShouldEqual, "Your responses have been saved! Total Score: 1")
				So(r.Entry.Date, ShouldEqual, "2024-06-09")
			})

			Convey("And showing history displays exactly that snapshot", func() {
				So(s.ToggleHistoryView(ctx), ShouldBeTrue)
				h := s.History()
				So(h, ShouldHaveLength, 1)
				So(h[0].Ratings, ShouldResemble, s.Ratings())
				So(h[0].TotalScore, ShouldEqual, 1)
			})
		})

		Convey("When every pair is set to {10,10}", func() {
			for _, c := range s.Categories() {
				So(s.SetRating(ctx, c, model.FieldImportance, 10), ShouldBeNil)
				So(s.SetRating(ctx, c, model.FieldMatch, 10), ShouldBeNil)
			}

			Convey("Then the score is 100", func() {
				So(s.Submit(ctx).TotalScore, ShouldEqual, 100)
			})
		})

		Convey("When submitting twice with different ratings", func() {
			first := s.Submit(ctx)
			c := s.Categories()[0]
			So(s.SetRating(ctx, c, model.FieldImportance, 10), ShouldBeNil)
			So(s.SetRating(ctx, c, model.FieldMatch, 10), ShouldBeNil)
			second := s.Submit(ctx)

			Convey("Then both entries exist in order with their own scores", func() {
				So(first.TotalScore, ShouldEqual, 1)
				So(second.TotalScore, ShouldEqual, 10) // ceil((100+11)/12)
				h := s.History()
				So(h, ShouldHaveLength, 2)
				So(h[0].TotalScore, ShouldEqual, 1)
				So(h[1].TotalScore, ShouldEqual, 10)
			})

			Convey("And the first snapshot is independent of later edits", func() {
				So(s.History()[0].Ratings[c], ShouldResemble, model.RatingPair{Importance: 1, Match: 1})
			})

			Convey("And a fresh session over the same storage sees both", func() {
				other := newSession(kv)
				other.ToggleHistoryView(ctx)
				So(other.History(), ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given storage that already holds entries from an earlier session", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryKV()
		earlier := newSession(kv)
		earlier.Submit(ctx)

		Convey("When a new session submits without showing history first", func() {
			s := newSession(kv)
			s.Submit(ctx)

			Convey("Then the earlier entry is preserved", func() {
				got, err := repository.NewHistoryRepository(kv).Load(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given storage holding three entries that cannot be read back", t, func() {
		ctx := context.Background()
		kv := &unreadableKV{MemoryKV: repository.NewMemoryKV()}
		earlier := newSession(kv)
		for i := 0; i < 3; i++ {
			earlier.Submit(ctx)
		}
		kv.readErr = errors.New("transient read error")
		setsBefore := kv.sets

		Convey("When a new session submits", func() {
			s := newSession(kv)
			r := s.Submit(ctx)

			Convey("Then the entry stays in memory and storage is not overwritten", func() {
				So(r.Persisted, ShouldBeFalse)
				So(r.TotalScore, ShouldEqual, 1)
				So(s.History(), ShouldHaveLength, 1)
				So(kv.sets, ShouldEqual, setsBefore)

				kv.readErr = nil
				got, err := repository.NewHistoryRepository(kv).Load(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
			})

			Convey("And deleting from the unreconciled log leaves storage alone", func() {
				So(s.DeleteEntry(ctx, 0), ShouldBeTrue)
				So(kv.sets, ShouldEqual, setsBefore)
			})

			Convey("And once reads recover, showing history reloads storage", func() {
				kv.readErr = nil
				So(s.ToggleHistoryView(ctx), ShouldBeTrue)
				So(s.History(), ShouldHaveLength, 3)

				Convey("Then writes resume", func() {
					So(s.Submit(ctx).Persisted, ShouldBeTrue)
					So(kv.sets, ShouldEqual, setsBefore+1)
				})
			})
		})
	})

	Convey("Given a session without storage", t, func() {
		ctx := context.Background()
		s := newSession(nil)

		Convey("When submitting and showing history", func() {
			r := s.Submit(ctx)
			visible := s.ToggleHistoryView(ctx)

			Convey("Then it works in memory and reports nothing persisted", func() {
				So(r.Persisted, ShouldBeFalse)
				So(r.TotalScore, ShouldEqual, 1)
				So(visible, ShouldBeTrue)
				So(s.History(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given storage whose writes fail", t, func() {
		ctx := context.Background()
		store := &flakyStore{err: errors.New("disk full")}
		s, err := app.New(app.WithStore(store), app.WithClock(fixedNow))
		So(err, ShouldBeNil)

		Convey("When submitting", func() {
			r := s.Submit(ctx)

			Convey("Then the in-memory log still grows", func() {
				So(r.Persisted, ShouldBeFalse)
				So(store.saves, ShouldEqual, 1)
				So(s.History(), ShouldHaveLength, 1)
			})
		})
	})
}

func TestSession_ToggleHistoryView(t *testing.T) {
	Convey("Given a session whose storage is edited out of band", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryKV()
		s := newSession(kv)
		s.Submit(ctx)

		Convey("When showing history", func() {
			So(s.ToggleHistoryView(ctx), ShouldBeTrue)
			So(s.History(), ShouldHaveLength, 1)

			Convey("And storage is cleared by another writer, then hidden and shown again", func() {
				So(kv.Set(ctx, repository.HistoryKey, "[]"), ShouldBeNil)
				So(s.ToggleHistoryView(ctx), ShouldBeFalse)
				So(s.History(), ShouldHaveLength, 1)
				So(s.ToggleHistoryView(ctx), ShouldBeTrue)

				Convey("Then the fresh storage content is shown", func() {
					So(s.History(), ShouldBeEmpty)
				})
			})
		})

		Convey("When storage holds malformed data", func() {
			So(kv.Set(ctx, repository.HistoryKey, "not json"), ShouldBeNil)
			s.ToggleHistoryView(ctx)

			Convey("Then the shown log is empty", func() {
				So(s.History(), ShouldBeEmpty)
			})
		})
	})
}

func TestSession_DeleteEntry(t *testing.T) {
	Convey("Given a session with three submissions", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryKV()
		s := newSession(kv)
		c := s.Categories()[0]
		for _, v := range []int{2, 5, 9} {
			So(s.SetRating(ctx, c, model.FieldMatch, v), ShouldBeNil)
			s.Submit(ctx)
		}
		before := s.History()

		Convey("When deleting the middle entry", func() {
			So(s.DeleteEntry(ctx, 1), ShouldBeTrue)

			Convey("Then the log shrinks by one and keeps the others in order", func() {
				after := s.History()
				So(after, ShouldHaveLength, 2)
				So(after[0], ShouldResemble, before[0])
				So(after[1], ShouldResemble, before[2])
			})

			Convey("And storage reflects the deletion", func() {
				got, err := repository.NewHistoryRepository(kv).Load(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, s.History())
			})
		})

		Convey("When deleting an out-of-range index", func() {
			So(s.DeleteEntry(ctx, 3), ShouldBeFalse)
			So(s.DeleteEntry(ctx, -1), ShouldBeFalse)

			Convey("Then nothing changes", func() {
				So(s.History(), ShouldResemble, before)
			})
		})
	})
}
