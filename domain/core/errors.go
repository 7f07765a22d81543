package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input contract errors
	ErrInsufficientTreatments = errors.New("insufficient treatments")
	ErrShapeMismatch          = errors.New("score sequence length does not match block count")
	ErrInvalidBlockCount      = errors.New("block count must be positive")
	ErrInvalidTreatment       = errors.New("invalid treatment name")
	ErrInvalidScore           = errors.New("score must be a finite number")

	// Ordering errors
	ErrUninitializedState = errors.New("friedman table has not been assembled")

	// Table coverage errors
	ErrUnsupported             = errors.New("unsupported by critical value table")
	ErrUnsupportedTreatments   = fmt.Errorf("%w: treatment count", ErrUnsupported)
	ErrUnsupportedSignificance = fmt.Errorf("%w: significance level", ErrUnsupported)
)

// Error constructors with context
func NewInsufficientTreatmentsError(have, need int) error {
	return fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientTreatments, have, need)
}

func NewShapeMismatchError(treatment string, have, want int) error {
	return fmt.Errorf("%w: treatment %q has %d scores, want %d", ErrShapeMismatch, treatment, have, want)
}

func NewInvalidBlockCountError(blocks int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidBlockCount, blocks)
}

func NewInvalidTreatmentError(name, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidTreatment, name, reason)
}

func NewInvalidScoreError(treatment string, block int, value float64) error {
	return fmt.Errorf("%w: treatment %q block %d is %v", ErrInvalidScore, treatment, block+1, value)
}

func NewUninitializedStateError(query string) error {
	return fmt.Errorf("%w: %s requires BuildTable first", ErrUninitializedState, query)
}

func NewUnsupportedTreatmentsError(k, max int) error {
	return fmt.Errorf("%w: %d treatments, table covers at most %d", ErrUnsupportedTreatments, k, max)
}

func NewUnsupportedSignificanceError(alpha float64) error {
	return fmt.Errorf("%w: alpha %g", ErrUnsupportedSignificance, alpha)
}

// Error checking helpers
func IsInsufficientTreatmentsError(err error) bool {
	return errors.Is(err, ErrInsufficientTreatments)
}

func IsShapeMismatchError(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

func IsUninitializedStateError(err error) bool {
	return errors.Is(err, ErrUninitializedState)
}

// IsInputError reports whether err is a caller input-contract violation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInsufficientTreatments) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrInvalidBlockCount) ||
		errors.Is(err, ErrInvalidTreatment) ||
		errors.Is(err, ErrInvalidScore)
}

func IsUnsupportedError(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
