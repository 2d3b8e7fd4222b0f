package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks non-positive windows, thresholds or ratios.
	// These are rejected before any repository read happens.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDataUnavailable marks a failed repository query or an entity set
	// the computation cannot do without (e.g. an empty product catalog).
	// It is surfaced explicitly, never silently defaulted.
	ErrDataUnavailable = errors.New("data unavailable")
)

func invalidParamf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func dataUnavailable(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s", ErrDataUnavailable, op)
}
