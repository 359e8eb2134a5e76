package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goflowspace/linksnap/internal/ui"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <canvas-file>",
		Short: "Check a canvas document for integrity problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := loadCanvas(args[0])
			if err != nil {
				return err
			}

			pins := 0
			for _, p := range canvas.Pins {
				pins += len(p.Starting) + len(p.Ending)
			}
			fmt.Printf("%s  %d nodes, %d edges, %d pins\n",
				ui.Brand.Sprint(canvas.ID), len(canvas.Nodes), len(canvas.Edges), pins)

			problems := canvas.Problems()
			if len(problems) == 0 {
				fmt.Printf("%s canvas is sound\n", ui.StatusIcon(true))
				return nil
			}
			for _, p := range problems {
				fmt.Printf("%s %s\n", ui.StatusIcon(false), p)
			}
			return fmt.Errorf("%d problems found", len(problems))
		},
	}
}
