package model

import "errors"

// Sentinel kinds for domain validation errors.
var (
	ErrEmptyCategorySet = errors.New("category set is empty")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownField     = errors.New("unknown rating field")
	ErrRatingOutOfRange = errors.New("rating out of range")
)
