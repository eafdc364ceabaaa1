package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/export"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
	color     string
}

// NewRootCmd builds the command tree. Command output goes to outW, logs
// and errors to errW.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "hiermodel",
		Short: "Compile hierarchical model specifications into design matrices",
		Long: `hiermodel expands formulas with random walks and random effects into
fixed-effects and pooling designs for downstream model fitting.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.validate()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%s", err)
	})

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	root.PersistentFlags().StringVar(&g.color, "color", export.ColorAuto, "Colorize summary output (auto|on|off).")

	root.AddCommand(newCompileCmd(g, outW, errW))
	root.AddCommand(newTermsCmd(outW))
	root.AddCommand(newVersionCmd(g, outW))
	return root
}

func (g *globalFlags) validate() error {
	g.logFormat = strings.ToLower(g.logFormat)
	if g.logFormat != "text" && g.logFormat != "json" {
		return usageError("invalid log-format: must be 'text' or 'json'")
	}
	g.logLevel = strings.ToLower(g.logLevel)
	switch g.logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	switch g.color {
	case export.ColorAuto, export.ColorOn, export.ColorOff:
	default:
		return usageError("invalid color: must be 'auto', 'on' or 'off'")
	}
	slog.Debug("CLI parameter validation complete.")
	return nil
}

// Execute runs the command tree over args. Every returned error is an
// *ExitError: usage and configuration problems have code 2, anything else
// code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCmd(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, config.ErrInvalidConfig) || strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s requires %s, got %d argument(s)\n\n%s", cmd.CommandPath(), what, len(args), cmd.UsageString())
		}
		return nil
	}
}

func oneOf(name, value string, allowed []string) error {
	if value != "" && !slices.Contains(allowed, value) {
		return usageError("invalid %s %q: must be one of %s", name, value, strings.Join(allowed, ", "))
	}
	return nil
}
