package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goflowspace/linksnap/internal/ui"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the linksnap version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", ui.Brand.Sprint("linksnap"), version)
		},
	}
}
