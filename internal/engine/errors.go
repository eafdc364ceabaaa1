package engine

import (
	"errors"

	"github.com/specialistvlad/hiermodel/internal/formula"
)

var (
	// ErrInvalidSpecification is returned when a specification does not
	// parse. It is the same value as formula.ErrInvalidSpecification.
	ErrInvalidSpecification = formula.ErrInvalidSpecification
	// ErrInvalidRandomWalkInput is returned when a random-walk time column
	// is missing, not numeric, has missing values or a single time point.
	ErrInvalidRandomWalkInput = errors.New("invalid random walk input")
	// ErrMissingGroupingColumn is returned when a grouping column is absent
	// from the dataset.
	ErrMissingGroupingColumn = errors.New("missing grouping column")
	// ErrUnsupportedInteraction is returned when a grouping side crosses
	// more than two columns.
	ErrUnsupportedInteraction = errors.New("unsupported interaction")
	// ErrDuplicateTerm is returned when a generated term collides with a
	// user fixed term or another generated term.
	ErrDuplicateTerm = errors.New("duplicate term")
)
