// Package scoring computes the normalized total score of a rating set.
package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/valuescore/internal/domain/model"
)

// ErrInvalidDivisor is returned when the scorer is built without categories.
var ErrInvalidDivisor = errors.New("scoring divisor must be positive")

// Scorer computes ceil(Σ importance*match / categoryCount) over a fixed
// category set. The divisor is always the size of the set it was built from.
type Scorer struct {
	categories model.CategorySet
}

// NewScorer binds a scorer to the categories whose count divides the sum.
func NewScorer(categories model.CategorySet) (*Scorer, error) {
	if categories.Len() <= 0 {
		return nil, fmt.Errorf("%w: %d categories", ErrInvalidDivisor, categories.Len())
	}
	return &Scorer{categories: categories}, nil
}

// Divisor returns the normalization divisor.
func (s *Scorer) Divisor() int { return s.categories.Len() }

// Sum adds importance*match over the scorer's categories. Categories missing
// from rs contribute nothing.
func (s *Scorer) Sum(rs model.RatingSet) int {
	sum := 0
	for _, c := range s.categories.All() {
		sum += rs[c].Product()
	}
	return sum
}

// Total returns the normalized score, rounded up.
func (s *Scorer) Total(rs model.RatingSet) int {
	return ceilDiv(s.Sum(rs), s.Divisor())
}

// ceilDiv rounds a/b toward positive infinity for b > 0.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
