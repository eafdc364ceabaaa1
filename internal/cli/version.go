package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specialistvlad/hiermodel/internal/export"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

func newVersionCmd(g *globalFlags, outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the hiermodel version",
		Args:  exactArgs(0, "no arguments"),
		RunE: func(cmd *cobra.Command, args []string) error {
			colored, err := export.ResolveColor(g.color, outW)
			if err != nil {
				return err
			}
			name := color.New(color.FgCyan, color.Bold)
			if colored {
				name.EnableColor()
			} else {
				name.DisableColor()
			}
			_, err = fmt.Fprintf(outW, "%s %s\n", name.Sprint("hiermodel"), Version)
			return err
		},
	}
}
