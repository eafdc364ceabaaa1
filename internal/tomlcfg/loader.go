// Package tomlcfg provides the TOML implementation of config.Loader.
//
//	[data]
//	path = "obs.csv"
//	required = ["week"]
//	[data.columns]
//	week = "number"
//
//	[[model]]
//	name = "reference"
//	formula = "~ 1 + rw(week)"
//
//	[output]
//	format = "yaml"
package tomlcfg

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/fsutil"
)

// Extension is the file extension the loader reads.
const Extension = ".toml"

type fileConfig struct {
	Data   *dataConfig   `toml:"data"`
	Model  []modelConfig `toml:"model"`
	Output *outputConfig `toml:"output"`
}

type dataConfig struct {
	Path        string            `toml:"path"`
	Required    []string          `toml:"required"`
	Categorical []string          `toml:"categorical"`
	Columns     map[string]string `toml:"columns"`
}

type modelConfig struct {
	Name    string `toml:"name"`
	Formula string `toml:"formula"`
	Sparse  *bool  `toml:"sparse"`
}

type outputConfig struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Loader reads run configuration from TOML files.
type Loader struct{}

// NewLoader creates a new TOML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .toml file found under paths and merges them. Keys
// the schema does not know are rejected.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path_count", len(paths))

	files, err := fsutil.ResolvePaths(paths, Extension)
	if err != nil {
		return nil, err
	}

	model := &config.Model{}
	for _, file := range files {
		part, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		if part.Data != nil && model.Data != nil {
			return nil, fmt.Errorf("%w: duplicate [data] in %s", config.ErrInvalidConfig, file)
		}
		if part.Output != nil && model.Output != nil {
			return nil, fmt.Errorf("%w: duplicate [output] in %s", config.ErrInvalidConfig, file)
		}
		model.Merge(part)
	}

	logger.Debug("TOML loading complete.", "files", len(files), "models", len(model.Models))
	return model, nil
}

func loadFile(path string) (*config.Model, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", config.ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	out := &config.Model{}
	if cfg.Data != nil {
		out.Data = &config.DataSource{
			Path:        resolve(base, cfg.Data.Path),
			Required:    cfg.Data.Required,
			Categorical: cfg.Data.Categorical,
		}
		for name, typ := range cfg.Data.Columns {
			if out.Data.Columns == nil {
				out.Data.Columns = make(map[string]config.ColumnType)
			}
			out.Data.Columns[name] = config.ColumnType(typ)
		}
	}
	for _, m := range cfg.Model {
		spec := &config.ModelSpec{Name: m.Name, Formula: m.Formula, Sparse: config.DefaultSparse}
		if m.Sparse != nil {
			spec.Sparse = *m.Sparse
		}
		out.Models = append(out.Models, spec)
	}
	if cfg.Output != nil {
		out.Output = &config.Output{Format: cfg.Output.Format, Dir: resolve(base, cfg.Output.Dir)}
	}
	return out, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
