package model

import (
	"fmt"
	"strings"
)

// Rating bounds accepted for both fields of a pair.
const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 1
)

// Field names one side of a RatingPair.
type Field string

// Rating fields.
const (
	FieldImportance Field = "importance"
	FieldMatch      Field = "match"
)

// ParseField maps user input to a Field, case-insensitively.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldImportance:
		return FieldImportance, nil
	case FieldMatch:
		return FieldMatch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// ValidateRating checks that v lies within [MinRating, MaxRating].
func ValidateRating(v int) error {
	if v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrRatingOutOfRange, v, MinRating, MaxRating)
	}
	return nil
}

// RatingPair is the (importance, match) score assigned to a category.
type RatingPair struct {
	Importance int `json:"importance"`
	Match      int `json:"match"`
}

// Product is the pair's contribution to the total score.
func (p RatingPair) Product() int { return p.Importance * p.Match }

// Delta is how far the lived match trails or exceeds the stated importance.
func (p RatingPair) Delta() int { return p.Match - p.Importance }

// RatingSet maps every category of a set to its pair.
type RatingSet map[Category]RatingPair

// NewRatingSet returns a set with every category at the default pair.
func NewRatingSet(categories CategorySet) RatingSet {
	rs := make(RatingSet, categories.Len())
	for _, c := range categories.order {
		rs[c] = RatingPair{Importance: DefaultRating, Match: DefaultRating}
	}
	return rs
}

// Clone returns an independent copy.
func (rs RatingSet) Clone() RatingSet {
	out := make(RatingSet, len(rs))
	for c, p := range rs {
		out[c] = p
	}
	return out
}

// Set replaces one field of one category in place.
func (rs RatingSet) Set(c Category, f Field, v int) error {
	p, ok := rs[c]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if err := ValidateRating(v); err != nil {
		return err
	}
	switch f {
	case FieldImportance:
		p.Importance = v
	case FieldMatch:
		p.Match = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	rs[c] = p
	return nil
}
