package design

import "slices"

// NoContrasts selects factors that are coded with one column per level
// instead of dropping the reference level. Names may be term labels
// ("a:b") or variable names ("a").
type NoContrasts struct {
	All   bool
	Names []string
}

// AllLevels returns a NoContrasts that applies to every factor.
func AllLevels() NoContrasts {
	return NoContrasts{All: true}
}

// Only returns a NoContrasts for the given names.
func Only(names ...string) NoContrasts {
	return NoContrasts{Names: names}
}

// Forces reports whether variable v, appearing in term label, must be
// coded with every level.
func (nc NoContrasts) Forces(label, v string) bool {
	return nc.All || slices.Contains(nc.Names, label) || slices.Contains(nc.Names, v)
}

// With returns a copy extended by names.
func (nc NoContrasts) With(names ...string) NoContrasts {
	out := NoContrasts{All: nc.All, Names: slices.Clone(nc.Names)}
	for _, n := range names {
		if !slices.Contains(out.Names, n) {
			out.Names = append(out.Names, n)
		}
	}
	return out
}
