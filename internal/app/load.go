package app

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/frame"
	"github.com/specialistvlad/hiermodel/internal/fsutil"
)

// loadConfig hands each configuration file to the loader registered for
// its extension, merges the parts, applies the command-line overrides and
// validates the result.
func (a *App) loadConfig(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	exts := slices.Sorted(maps.Keys(a.loaders))
	logger.Debug("Loading configuration...", "paths", a.config.ConfigPaths, "extensions", exts)

	files, err := fsutil.ResolvePaths(a.config.ConfigPaths, exts...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no configuration files found", config.ErrInvalidConfig)
	}

	byExt := make(map[string][]string)
	for _, f := range files {
		ext := filepath.Ext(f)
		byExt[ext] = append(byExt[ext], f)
	}

	model := &config.Model{}
	for _, ext := range exts {
		if len(byExt[ext]) == 0 {
			continue
		}
		part, err := a.loaders[ext].Load(ctx, byExt[ext]...)
		if err != nil {
			return nil, err
		}
		if part.Data != nil && model.Data != nil {
			return nil, fmt.Errorf("%w: data is defined in more than one file", config.ErrInvalidConfig)
		}
		if part.Output != nil && model.Output != nil {
			return nil, fmt.Errorf("%w: output is defined in more than one file", config.ErrInvalidConfig)
		}
		model.Merge(part)
	}

	if a.config.Format != "" || a.config.OutDir != "" {
		if model.Output == nil {
			model.Output = &config.Output{}
		}
		if a.config.Format != "" {
			model.Output.Format = a.config.Format
		}
		if a.config.OutDir != "" {
			model.Output.Dir = a.config.OutDir
		}
	}

	if err := config.Validate(model); err != nil {
		return nil, err
	}
	return model, nil
}

// loadData reads the dataset and applies the declared column types.
func (a *App) loadData(ctx context.Context) (*frame.Frame, error) {
	logger := ctxlog.FromContext(ctx)
	src := a.model.Data
	logger.Debug("Reading dataset.", "path", src.Path)

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	data, err := frame.ReadCSV(f, frame.CSVOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", src.Path, err)
	}

	required := slices.Clone(src.Required)
	for _, name := range slices.Sorted(maps.Keys(src.Columns)) {
		if !slices.Contains(required, name) {
			required = append(required, name)
		}
	}
	data, err = frame.Coerce(data, frame.CoerceOptions{
		Required:    required,
		Categorical: append(slices.Clone(src.Categorical), src.Strings()...),
		Numeric:     src.Numeric(),
	})
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", src.Path, err)
	}

	logger.Info("Dataset loaded.", "rows", data.NRow(), "columns", len(data.Names()))
	return data, nil
}
