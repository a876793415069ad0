package api

import (
	"errors"
	"fmt"
)

// ErrBadRequest marks malformed requests.
var ErrBadRequest = errors.New("bad request")

// WrapKind annotates err with the operation and an error kind so that
// callers can match the kind with errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
