package engine

import (
	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// Fragment is the output of compiling one random-walk or random-effect
// term: the augmented dataset, the fixed terms to add to the model and
// the effects table carrying their pooling groups.
type Fragment struct {
	Data        *frame.Frame
	Terms       []string
	Effects     *design.Effects
	Diagnostics []Diagnostic
}
