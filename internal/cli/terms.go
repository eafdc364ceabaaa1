package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/hiermodel/internal/formula"
)

type termsPayload struct {
	Intercept     bool     `json:"intercept"`
	Fixed         []string `json:"fixed"`
	RandomEffects []string `json:"random_effects"`
	RandomWalks   []string `json:"random_walks"`
}

func newTermsCmd(outW io.Writer) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "terms [flags] FORMULA",
		Short: "Show how a formula splits into fixed, random-effect and random-walk terms",
		Args:  exactArgs(1, "one FORMULA"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf("format", format, []string{"pretty", "json"}); err != nil {
				return err
			}
			parsed, err := formula.Classify(args[0])
			if err != nil {
				return err
			}

			p := termsPayload{Intercept: parsed.Intercept, Fixed: parsed.Fixed}
			for _, re := range parsed.Random {
				p.RandomEffects = append(p.RandomEffects, re.String())
			}
			for _, rw := range parsed.RandomWalks {
				p.RandomWalks = append(p.RandomWalks, rw.String())
			}

			if format == "json" {
				enc := json.NewEncoder(outW)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			fmt.Fprintf(outW, "%-14s %t\n", "intercept", p.Intercept)
			fmt.Fprintf(outW, "%-14s %s\n", "fixed", strings.Join(p.Fixed, " + "))
			fmt.Fprintf(outW, "%-14s %s\n", "random", strings.Join(p.RandomEffects, " + "))
			fmt.Fprintf(outW, "%-14s %s\n", "random walks", strings.Join(p.RandomWalks, " + "))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format (pretty|json).")
	return cmd
}
