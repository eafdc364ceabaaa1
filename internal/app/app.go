package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/export"
	"github.com/specialistvlad/hiermodel/internal/hcl"
	"github.com/specialistvlad/hiermodel/internal/tomlcfg"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	runID   string
	config  *Config
	model   *config.Model
	loaders map[string]config.Loader
	color   bool
}

// NewApp loads and validates the run configuration. Results are written
// to outW and logs to logW.
func NewApp(ctx context.Context, outW, logW io.Writer, appConfig *Config) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	colored, err := export.ResolveColor(appConfig.Color, outW)
	if err != nil {
		return nil, err
	}

	a := &App{
		outW:   outW,
		logger: logger,
		runID:  runID,
		config: appConfig,
		loaders: map[string]config.Loader{
			hcl.Extension:     hcl.NewLoader(),
			tomlcfg.Extension: tomlcfg.NewLoader(),
		},
		color: colored,
	}

	model, err := a.loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.model = model
	logger.Debug("Configuration loaded and validated.", "models", len(model.Models), "format", model.Output.Format)
	return a, nil
}

// RunID identifies this run in every log record.
func (a *App) RunID() string {
	return a.runID
}

// Model returns the validated run configuration. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
