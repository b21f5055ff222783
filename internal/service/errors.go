package service

import (
	"errors"
	"fmt"

	"github.com/mukesh1352/navcart/internal/pathfind"
)

var (
	// ErrStoreUnavailable reports that connectivity records could not be read.
	ErrStoreUnavailable = errors.New("graph store unavailable")
	// ErrInvalidRequest reports a query rejected before touching the store.
	ErrInvalidRequest = errors.New("invalid request")
)

// StoreError wraps a failed store fetch. The query still ran against an empty
// snapshot and Degraded holds what it produced, so errors.Is matches both
// ErrStoreUnavailable and the degraded outcome.
type StoreError struct {
	Op       string
	Err      error
	Degraded error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnavailable, e.Err)
}

func (e *StoreError) Unwrap() []error {
	errs := []error{ErrStoreUnavailable, e.Err}
	if e.Degraded != nil {
		errs = append(errs, e.Degraded)
	}
	return errs
}

// Outcome labels for metrics and spans.
const (
	OutcomeOK               = "ok"
	OutcomeInvalid          = "invalid"
	OutcomeNotFound         = "not_found"
	OutcomeNoPath           = "no_path"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeError            = "error"
)

// Outcome classifies err into a low-cardinality label. Store failures take
// precedence over the degraded query outcome.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, pathfind.ErrTooManyStops):
		return OutcomeInvalid
	case errors.Is(err, pathfind.ErrNodeNotFound):
		return OutcomeNotFound
	case errors.Is(err, pathfind.ErrNoPath):
		return OutcomeNoPath
	default:
		return OutcomeError
	}
}
