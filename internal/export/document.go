package export

import (
	"fmt"

	"fortio.org/safecast"
	"gonum.org/v1/gonum/mat"

	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/engine"
)

// Matrix is a design matrix in row-major form.
type Matrix struct {
	Formula string      `json:"formula" yaml:"formula" msgpack:"formula"`
	Columns []string    `json:"columns" yaml:"columns" msgpack:"columns"`
	Rows    [][]float64 `json:"rows" yaml:"rows,flow" msgpack:"rows"`
}

// FixedMatrix adds the dataset-row index to a fixed design.
type FixedMatrix struct {
	Matrix `yaml:",inline" msgpack:",inline"`
	Index  []int32 `json:"index" yaml:"index,flow" msgpack:"index"`
}

// PoolingMatrix names the effect behind each pooling design row.
type PoolingMatrix struct {
	Matrix  `yaml:",inline" msgpack:",inline"`
	Effects []string `json:"effects" yaml:"effects" msgpack:"effects"`
}

// Parsed is the classified specification.
type Parsed struct {
	Intercept     bool     `json:"intercept" yaml:"intercept" msgpack:"intercept"`
	Fixed         []string `json:"fixed" yaml:"fixed" msgpack:"fixed"`
	RandomEffects []string `json:"random_effects" yaml:"random_effects" msgpack:"random_effects"`
	RandomWalks   []string `json:"random_walks" yaml:"random_walks" msgpack:"random_walks"`
}

// Document is the exported form of one compiled model, or of the error
// that stopped it.
type Document struct {
	Name        string              `json:"name" yaml:"name" msgpack:"name"`
	Formula     string              `json:"formula" yaml:"formula" msgpack:"formula"`
	Error       string              `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
	Parsed      *Parsed             `json:"parsed,omitempty" yaml:"parsed,omitempty" msgpack:"parsed,omitempty"`
	Expanded    string              `json:"expanded,omitempty" yaml:"expanded,omitempty" msgpack:"expanded,omitempty"`
	Fixed       *FixedMatrix        `json:"fixed,omitempty" yaml:"fixed,omitempty" msgpack:"fixed,omitempty"`
	Effects     *design.Effects     `json:"effects,omitempty" yaml:"effects,omitempty" msgpack:"effects,omitempty"`
	Random      *PoolingMatrix      `json:"random,omitempty" yaml:"random,omitempty" msgpack:"random,omitempty"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
}

// NewDocument converts a compilation result.
func NewDocument(formula string, r engine.Result) (*Document, error) {
	doc := &Document{Name: r.Name, Formula: formula}
	if r.Err != nil {
		doc.Error = r.Err.Error()
		return doc, nil
	}
	m := r.Model

	doc.Parsed = &Parsed{
		Intercept: m.Parsed.Intercept,
		Fixed:     m.Parsed.Fixed,
	}
	for _, re := range m.Parsed.Random {
		doc.Parsed.RandomEffects = append(doc.Parsed.RandomEffects, re.String())
	}
	for _, rw := range m.Parsed.RandomWalks {
		doc.Parsed.RandomWalks = append(doc.Parsed.RandomWalks, rw.String())
	}
	doc.Expanded = m.Expanded

	index := make([]int32, len(m.Fixed.Index))
	for i, row := range m.Fixed.Index {
		v, err := safecast.Conv[int32](row)
		if err != nil {
			return nil, fmt.Errorf("model %q: design row %d: %w", r.Name, row, err)
		}
		index[i] = v
	}
	doc.Fixed = &FixedMatrix{
		Matrix: Matrix{Formula: m.Fixed.Formula, Columns: m.Fixed.ColumnNames(), Rows: rows(m.Fixed.Design)},
		Index:  index,
	}
	doc.Effects = m.Effects
	doc.Random = &PoolingMatrix{
		Matrix:  Matrix{Formula: m.Random.Formula, Columns: m.Random.Columns, Rows: rows(m.Random.Design)},
		Effects: m.Random.Effects,
	}
	doc.Diagnostics = m.Diagnostics
	return doc, nil
}

func rows(d *mat.Dense) [][]float64 {
	if d == nil {
		return [][]float64{}
	}
	r, _ := d.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, d)
	}
	return out
}
