package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Schema errors
	ErrSchema        = errors.New("schema error")
	ErrColumnMissing = fmt.Errorf("%w: column missing", ErrSchema)
	ErrColumnType    = fmt.Errorf("%w: wrong column type", ErrSchema)
	ErrValueMissing  = fmt.Errorf("%w: empty cell", ErrSchema)

	// Cohort errors
	ErrEmptyCohort        = errors.New("empty cohort")
	ErrInsufficientSample = errors.New("insufficient sample for comparison")

	// Numeric errors
	ErrNumeric          = errors.New("numeric error")
	ErrNonFinite        = fmt.Errorf("%w: non-finite value", ErrNumeric)
	ErrDegenerateSample = fmt.Errorf("%w: zero variance with differing means", ErrNumeric)

	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewColumnMissingError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnMissing, column)
}

func NewColumnTypeError(column, want, got string) error {
	return fmt.Errorf("%w: column %q is %s, want %s", ErrColumnType, column, got, want)
}

func NewValueMissingError(column string, line int) error {
	return fmt.Errorf("%w: column %q line %d", ErrValueMissing, column, line)
}

func NewEmptyCohortError(analysis, cohort string) error {
	return fmt.Errorf("%w: %s has no rows in %s", ErrEmptyCohort, cohort, analysis)
}

func NewNonFiniteError(metric string, line int, value float64) error {
	return fmt.Errorf("%w: metric %s line %d produced %v", ErrNonFinite, metric, line, value)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsNumericError(err error) bool {
	return errors.Is(err, ErrNumeric)
}

func IsCohortError(err error) bool {
	return errors.Is(err, ErrEmptyCohort) ||
		errors.Is(err, ErrInsufficientSample)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
