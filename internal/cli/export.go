package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goflowspace/linksnap/internal/codec"
	"github.com/goflowspace/linksnap/internal/ui"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export <canvas-file>",
		Short: "Convert a canvas document between YAML and JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := loadCanvas(args[0])
			if err != nil {
				return err
			}

			var exp codec.Exporter
			switch format {
			case "yaml":
				exp = codec.NewYAMLCodec()
			case "json":
				exp = codec.NewJSONCodec()
			default:
				return fmt.Errorf("unknown format %q, want yaml or json", format)
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := exp.Export(canvas, w); err != nil {
				return err
			}
			if out != "" {
				fmt.Printf("%s wrote %s (%s)\n", ui.StatusIcon(true), out, exp.Format())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "to", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
