package model

import (
	"errors"
	"strings"
)

// Sentinel error kinds. Callers classify with errors.Is; human-readable
// detail is layered on with fmt.Errorf("%w: ...") wrapping.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// Message returns the human-readable part of a wrapped sentinel error,
// with the kind prefix stripped, for use in client-facing responses.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrNotFound, ErrValidation} {
		if errors.Is(err, kind) {
			return strings.TrimPrefix(msg, kind.Error()+": ")
		}
	}
	return msg
}
