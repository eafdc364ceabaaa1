package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/schema"
)

// translateFile converts one decoded file into the agnostic model. Paths
// are resolved against the file's directory.
func translateFile(ctx context.Context, file string, root *schema.File) (*config.Model, error) {
	base := filepath.Dir(file)
	m := &config.Model{}

	if root.Data != nil {
		data, err := translateData(ctx, base, root.Data)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		m.Data = data
	}
	for _, mb := range root.Models {
		m.Models = append(m.Models, translateModel(mb))
	}
	if root.Output != nil {
		m.Output = &config.Output{
			Format: root.Output.Format,
			Dir:    resolve(base, root.Output.Dir),
		}
	}
	return m, nil
}

func translateData(ctx context.Context, base string, d *schema.Data) (*config.DataSource, error) {
	out := &config.DataSource{
		Path:        resolve(base, d.Path),
		Required:    d.Required,
		Categorical: d.Categorical,
	}
	for _, col := range d.Columns {
		typ, err := columnType(ctx, col.Type)
		if err != nil {
			return nil, fmt.Errorf("data column %q: %w", col.Name, err)
		}
		if out.Columns == nil {
			out.Columns = make(map[string]config.ColumnType)
		}
		if _, dup := out.Columns[col.Name]; dup {
			return nil, fmt.Errorf("%w: data column %q declared twice", config.ErrInvalidConfig, col.Name)
		}
		out.Columns[col.Name] = typ
	}
	return out, nil
}

func translateModel(m *schema.Model) *config.ModelSpec {
	sparse := config.DefaultSparse
	if m.Sparse != nil {
		sparse = *m.Sparse
	}
	return &config.ModelSpec{Name: m.Name, Formula: m.Formula, Sparse: sparse}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
