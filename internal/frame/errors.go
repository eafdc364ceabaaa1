package frame

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrMissingValue is returned when a column that must be complete has gaps.
	ErrMissingValue = errors.New("missing value")
	// ErrCoercion is returned when input data cannot be normalised into a Frame.
	ErrCoercion = errors.New("cannot coerce data")
)
