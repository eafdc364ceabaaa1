package design

import "errors"

var (
	// ErrUnsupportedTerm is returned when a grouped or random-walk term
	// reaches the fixed design builder.
	ErrUnsupportedTerm = errors.New("term cannot be part of a fixed design")
	// ErrEmptyGroupName is returned when a pooling group has no name.
	ErrEmptyGroupName = errors.New("pooling group name is empty")
	// ErrDuplicateColumn is returned when two design columns render to the
	// same name, e.g. variable "a" with level "b1" and variable "ab" with
	// level "1".
	ErrDuplicateColumn = errors.New("duplicate design column name")
)
