// Command wormgear generates worm gear pair geometry from calculator JSON.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "wormgear",
		Short:         "Construction geometry for worm gear pairs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newBuildCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
