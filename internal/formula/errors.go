package formula

import (
	"errors"
	"fmt"
)

// ErrInvalidSpecification is returned for any input that is not a
// well-formed model specification.
var ErrInvalidSpecification = errors.New("invalid model specification")

// SyntaxError locates a parse failure in the source text.
type SyntaxError struct {
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrInvalidSpecification, e.Offset, e.Msg)
}

// Unwrap makes errors.Is(err, ErrInvalidSpecification) hold.
func (e *SyntaxError) Unwrap() error {
	return ErrInvalidSpecification
}

func errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
