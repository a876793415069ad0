package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/valuescore/internal/domain/model"
	"github.com/okian/valuescore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func uniform(set model.CategorySet, importance, match int) model.RatingSet {
	rs := model.NewRatingSet(set)
	for _, c := range set.All() {
		rs[c] = model.RatingPair{Importance: importance, Match: match}
	}
	return rs
}

func TestScorer_Total(t *testing.T) {
	Convey("Given a scorer over the default twelve categories", t, func() {
		set := model.MustCategorySet(model.DefaultCategories())
		scorer, err := scoring.NewScorer(set)
		So(err, ShouldBeNil)

		Convey("Then the divisor equals the category count", func() {
			So(scorer.Divisor(), ShouldEqual, 12)
		})

		Convey("When every pair is {1,1}", func() {
			Convey("Then the score is ceil(12/12) = 1", func() {
				So(scorer.Total(uniform(set, 1, 1)), ShouldEqual, 1)
			})
		})

		Convey("When every pair is {10,10}", func() {
			Convey("Then the score is ceil(1200/12) = 100", func() {
				So(scorer.Total(uniform(set, 10, 10)), ShouldEqual, 100)
			})
		})

		Convey("When the sum is not a multiple of twelve", func() {
			rs := uniform(set, 1, 1)
			first, _ := set.At(0)
			rs[first] = model.RatingPair{Importance: 2, Match: 1} // sum 13

			Convey("Then the score rounds up", func() {
				So(scorer.Sum(rs), ShouldEqual, 13)
				So(scorer.Total(rs), ShouldEqual, 2)
			})
		})

		Convey("When every rating in range is checked exhaustively for one category", func() {
			first, _ := set.At(0)
			Convey("Then Total always equals ceil(sum/12)", func() {
				for i := model.MinRating; i <= model.MaxRating; i++ {
					for m := model.MinRating; m <= model.MaxRating; m++ {
						rs := uniform(set, 3, 4)
						rs[first] = model.RatingPair{Importance: i, Match: m}
						sum := 11*12 + i*m
						want := (sum + 11) / 12
						So(scorer.Total(rs), ShouldEqual, want)
					}
				}
			})
		})
	})

	Convey("Given a scorer over a smaller configured set", t, func() {
		set := model.MustCategorySet([]model.Category{"a", "b", "c"})
		scorer, err := scoring.NewScorer(set)
		So(err, ShouldBeNil)

		Convey("Then the divisor follows the set instead of a fixed twelve", func() {
			rs := uniform(set, 10, 10)
			So(scorer.Divisor(), ShouldEqual, 3)
			So(scorer.Total(rs), ShouldEqual, 100)
		})

		Convey("And ratings for foreign categories are ignored", func() {
			rs := uniform(set, 1, 1)
			rs["stranger"] = model.RatingPair{Importance: 10, Match: 10}
			So(scorer.Total(rs), ShouldEqual, 1)
		})
	})

	Convey("Given an empty category set", t, func() {
		_, err := scoring.NewScorer(model.CategorySet{})

		Convey("Then construction fails", func() {
			So(errors.Is(err, scoring.ErrInvalidDivisor), ShouldBeTrue)
		})
	})
}
