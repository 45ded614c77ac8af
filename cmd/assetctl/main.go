// Command assetctl inspects brokerage exports and computes rebalancing plans offline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetctl",
		Short:         "Inspect brokerage exports and compute rebalancing plans",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(inspectCmd(), planCmd())
	return root
}
