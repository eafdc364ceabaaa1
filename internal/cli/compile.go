package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/hiermodel/internal/app"
	"github.com/specialistvlad/hiermodel/internal/config"
)

func newCompileCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var (
		format  string
		outDir  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "compile [flags] CONFIG...",
		Short: "Compile every model of a run configuration",
		Long: `Compile reads .hcl or .toml run configuration files (or directories
containing them), loads the dataset they name and compiles each model.
Flags override the configuration's output block.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError("%s requires at least one CONFIG path\n\n%s", cmd.CommandPath(), cmd.UsageString())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf("format", format, config.Formats); err != nil {
				return err
			}
			cfg, err := app.NewConfig(app.Config{
				ConfigPaths: args,
				Format:      format,
				OutDir:      outDir,
				Workers:     workers,
				Color:       g.color,
				LogFormat:   g.logFormat,
				LogLevel:    g.logLevel,
			})
			if err != nil {
				return usageError("%s", err)
			}
			slog.Debug("CLI parser finished successfully.", "config", cfg)

			a, err := app.NewApp(cmd.Context(), outW, errW, cfg)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml, msgpack or summary.")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write one file per model into this directory.")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of models compiled concurrently. 0 uses every CPU.")
	return cmd
}
