// Package cli implements the linksnap command line tool. Commands load a
// canvas document from disk and work on it offline; simulate replays a drag
// gesture against the same engine the server runs.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:          "linksnap",
	Short:        "linksnap — canvas link tooling",
	Long:         "Validate, convert and dry-run canvas documents without a running server.",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("linksnap {{ .Version }}\n")

	rootCmd.AddCommand(
		simulateCmd(),
		validateCmd(),
		exportCmd(),
		versionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
