package frame

// Builder constructs a Frame column by column and reports the first error
// on Build.
type Builder struct {
	cols []*Column
	err  error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Numeric appends a numeric column.
func (b *Builder) Numeric(name string, values ...float64) *Builder {
	b.cols = append(b.cols, NewNumeric(name, values))
	return b
}

// Categorical appends a categorical column with sorted levels.
func (b *Builder) Categorical(name string, values ...string) *Builder {
	b.cols = append(b.cols, NewCategorical(name, values, nil))
	return b
}

// CategoricalLevels appends a categorical column with an explicit level order.
func (b *Builder) CategoricalLevels(name string, levels []string, values ...string) *Builder {
	if b.err != nil {
		return b
	}
	col, err := NewCategoricalWithLevels(name, values, levels)
	if err != nil {
		b.err = err
		return b
	}
	b.cols = append(b.cols, col)
	return b
}

// Build returns the assembled frame.
func (b *Builder) Build() (*Frame, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cols...)
}
