package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration and fills defaults. Every problem
// found is reported.
func Validate(m *Model) error {
	var problems []string
	if m.Data == nil || strings.TrimSpace(m.Data.Path) == "" {
		problems = append(problems, "data path is required")
	}
	if m.Data != nil {
		for name, typ := range m.Data.Columns {
			if typ != ColumnNumber && typ != ColumnString {
				problems = append(problems, fmt.Sprintf("column %q: type must be number or string, got %q", name, typ))
			}
			if typ == ColumnNumber && slices.Contains(m.Data.Categorical, name) {
				problems = append(problems, fmt.Sprintf("column %q is declared number and categorical", name))
			}
		}
	}

	if len(m.Models) == 0 {
		problems = append(problems, "at least one model is required")
	}
	seen := make(map[string]bool)
	for i, spec := range m.Models {
		if spec.Name == "" {
			problems = append(problems, fmt.Sprintf("model %d has no name", i))
		} else if seen[spec.Name] {
			problems = append(problems, fmt.Sprintf("model %q is defined more than once", spec.Name))
		}
		seen[spec.Name] = true
		if strings.TrimSpace(spec.Formula) == "" {
			problems = append(problems, fmt.Sprintf("model %q has an empty formula", spec.Name))
		}
	}

	if m.Output == nil {
		m.Output = &Output{}
	}
	if m.Output.Format == "" {
		m.Output.Format = FormatSummary
	}
	if !slices.Contains(Formats, m.Output.Format) {
		problems = append(problems, fmt.Sprintf("output format %q is not one of %s", m.Output.Format, strings.Join(Formats, ", ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Numeric lists the columns declared as numbers, sorted.
func (d *DataSource) Numeric() []string {
	return d.ofType(ColumnNumber)
}

// Strings lists the columns declared as strings, sorted.
func (d *DataSource) Strings() []string {
	return d.ofType(ColumnString)
}

func (d *DataSource) ofType(t ColumnType) []string {
	var out []string
	for name, typ := range d.Columns {
		if typ == t {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
