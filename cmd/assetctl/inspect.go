package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simaogato/assetbalance-backend/internal/usecase/csvimport"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <export.csv>",
		Short: "Show the detected encoding and the ledger rows an export would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open export: %w", err)
			}
			defer f.Close()

			return runInspect(f, cmd.OutOrStdout())
		},
	}
}

// runInspect decodes and parses an export, writing one row per usable entry
func runInspect(r io.Reader, out io.Writer) error {
	lines, enc, err := csvimport.ReadLines(r)
	if err != nil {
		return err
	}

	entries, skipped := csvimport.ParseLines(lines)

	fmt.Fprintf(out, "encoding: %s\n", enc)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", entry.InstrumentName, entry.Amount.String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "entries: %d, skipped: %d\n", len(entries), skipped)

	return nil
}
