package design

import (
	"fmt"
	"slices"
	"strings"
)

// Effect identifies one non-intercept fixed-design column.
type Effect struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty" msgpack:"components,omitempty"`
}

// Variables lists the variables the effect is built from.
func (e Effect) Variables() []string {
	out := make([]string, len(e.Components))
	for i, c := range e.Components {
		out[i] = c.Variable
	}
	return out
}

// EffectRow is one row of an effects table. Fixed is true while the
// effect belongs to no pooling group. Pools lists the groups it belongs
// to, in table group order.
type EffectRow struct {
	Effect `yaml:",inline" msgpack:",inline"`
	Fixed  bool     `json:"fixed" yaml:"fixed" msgpack:"fixed"`
	Pools  []string `json:"pools,omitempty" yaml:"pools,omitempty" msgpack:"pools,omitempty"`
}

// InPool reports whether the row belongs to the named group.
func (r EffectRow) InPool(group string) bool {
	return slices.Contains(r.Pools, group)
}

// Effects is a table of effects and their pooling-group memberships.
// Tables are treated as values: every operation returns a new table.
type Effects struct {
	Groups []string    `json:"groups" yaml:"groups" msgpack:"groups"`
	Rows   []EffectRow `json:"rows" yaml:"rows" msgpack:"rows"`
}

// Describe builds the effects table of a fixed design: one row per
// non-intercept column, all marked fixed, with no groups.
func Describe(f *Fixed) *Effects {
	out := &Effects{}
	for _, c := range f.Columns {
		if c.Components == nil {
			continue
		}
		out.Rows = append(out.Rows, EffectRow{
			Effect: Effect{Name: c.Name, Components: slices.Clone(c.Components)},
			Fixed:  true,
		})
	}
	return out
}

// Names lists the effect names in order.
func (e *Effects) Names() []string {
	out := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		out[i] = r.Name
	}
	return out
}

// Row returns the row for the named effect.
func (e *Effects) Row(name string) (EffectRow, bool) {
	for _, r := range e.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return EffectRow{}, false
}

// Members lists the effects in the named group.
func (e *Effects) Members(group string) []string {
	var out []string
	for _, r := range e.Rows {
		if r.InPool(group) {
			out = append(out, r.Name)
		}
	}
	return out
}

// Clone returns a deep copy.
func (e *Effects) Clone() *Effects {
	out := &Effects{Groups: slices.Clone(e.Groups), Rows: make([]EffectRow, len(e.Rows))}
	for i, r := range e.Rows {
		out.Rows[i] = EffectRow{
			Effect: Effect{Name: r.Name, Components: slices.Clone(r.Components)},
			Fixed:  r.Fixed,
			Pools:  slices.Clone(r.Pools),
		}
	}
	return out
}

// Matcher selects effect rows.
type Matcher func(Effect) bool

// HasPrefix matches effects whose name starts with prefix.
func HasPrefix(prefix string) Matcher {
	return func(e Effect) bool {
		return strings.HasPrefix(e.Name, prefix)
	}
}

// Named matches effects by exact name.
func Named(names ...string) Matcher {
	return func(e Effect) bool {
		return slices.Contains(names, e.Name)
	}
}

// OverVariables matches effects built from exactly the given set of
// variables.
func OverVariables(vars ...string) Matcher {
	return func(e Effect) bool {
		return sameSet(e.Variables(), vars)
	}
}

// AnyVariable matches effects built from at least one of vars.
func AnyVariable(vars ...string) Matcher {
	return func(e Effect) bool {
		for _, c := range e.Components {
			if slices.Contains(vars, c.Variable) {
				return true
			}
		}
		return false
	}
}

// HasComponent matches effects that include variable at level.
func HasComponent(variable, level string) Matcher {
	want := Component{Variable: variable, Level: level}
	return func(e Effect) bool {
		return slices.Contains(e.Components, want)
	}
}

// All matches effects accepted by every matcher.
func All(ms ...Matcher) Matcher {
	return func(e Effect) bool {
		for _, m := range ms {
			if !m(e) {
				return false
			}
		}
		return true
	}
}

// AddPoolingGroup adds group to the table and makes every matched row a
// member of it, clearing its fixed flag. Adding to an existing group
// extends its membership. The number of matched rows is returned.
func AddPoolingGroup(e *Effects, group string, match Matcher) (*Effects, int, error) {
	if group == "" {
		return nil, 0, ErrEmptyGroupName
	}
	if match == nil {
		return nil, 0, fmt.Errorf("pooling group %q: nil matcher", group)
	}
	out := e.Clone()
	if !slices.Contains(out.Groups, group) {
		out.Groups = append(out.Groups, group)
	}
	n := 0
	for i := range out.Rows {
		r := &out.Rows[i]
		if !match(r.Effect) {
			continue
		}
		n++
		r.Fixed = false
		if !r.InPool(group) {
			r.Pools = append(r.Pools, group)
		}
	}
	return out, n, nil
}

// Merge overlays fragment onto base. Base row order is kept. A base row
// whose name appears in fragment takes the fragment row's fixed flag and
// memberships; other base rows keep theirs and are absent from new
// groups. Fragment groups missing from base are appended. Fragment rows
// naming no base row are dropped and returned.
func Merge(base, fragment *Effects) (*Effects, []string) {
	out := base.Clone()
	for _, g := range fragment.Groups {
		if !slices.Contains(out.Groups, g) {
			out.Groups = append(out.Groups, g)
		}
	}

	var dropped []string
	for _, fr := range fragment.Rows {
		idx := slices.IndexFunc(out.Rows, func(r EffectRow) bool { return r.Name == fr.Name })
		if idx < 0 {
			dropped = append(dropped, fr.Name)
			continue
		}
		out.Rows[idx].Fixed = fr.Fixed
		out.Rows[idx].Pools = slices.Clone(fr.Pools)
	}
	for i := range out.Rows {
		out.Rows[i].Pools = ordered(out.Rows[i].Pools, out.Groups)
	}
	return out, dropped
}

func ordered(pools, groups []string) []string {
	if len(pools) == 0 {
		return nil
	}
	out := make([]string, 0, len(pools))
	for _, g := range groups {
		if slices.Contains(pools, g) {
			out = append(out, g)
		}
	}
	return out
}
