package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/assetbalance-backend/internal/domain"
	"github.com/simaogato/assetbalance-backend/internal/usecase/allocator"
	"github.com/simaogato/assetbalance-backend/internal/usecase/presenter"
)

// holdingsFile is the YAML document read by the plan command
type holdingsFile struct {
	Categories []holding `yaml:"categories"`
}

// holding is one category's current amount and target ratio. Decimals are kept as strings.
type holding struct {
	Name        string `yaml:"name"`
	Amount      string `yaml:"amount"`
	TargetRatio string `yaml:"target_ratio"`
}

func planCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan <holdings.yaml>",
		Short: "Compute the rebalancing plan for per-category holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open holdings file: %w", err)
			}
			defer f.Close()

			return runPlan(f, cmd.OutOrStdout(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

// runPlan reads holdings, plans and writes the formatted view
func runPlan(r io.Reader, out io.Writer, asJSON bool) error {
	var file holdingsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse holdings file: %w", err)
	}

	amounts, targets, err := file.toSnapshot()
	if err != nil {
		return err
	}

	views := presenter.Format(allocator.Plan(allocator.Aggregate(amounts, targets)))

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "category\tamount\tratio\ttarget amount\ttarget ratio\t")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", v.AssetName, v.Amount, v.Ratio, v.TargetAmount, v.TargetRatio)
	}
	return tw.Flush()
}

// toSnapshot turns holdings into the inputs the aggregator expects, one synthetic category ID per row
func (f *holdingsFile) toSnapshot() ([]domain.ResolvedAmount, []domain.CategoryTarget, error) {
	amounts := make([]domain.ResolvedAmount, 0, len(f.Categories))
	targets := make([]domain.CategoryTarget, 0, len(f.Categories))

	for i, h := range f.Categories {
		id := int64(i + 1)

		amount, err := parseDecimal(h.Amount)
		if err != nil {
			return nil, nil, fmt.Errorf("category %q: invalid amount: %w", h.Name, err)
		}
		ratio, err := parseDecimal(h.TargetRatio)
		if err != nil {
			return nil, nil, fmt.Errorf("category %q: invalid target_ratio: %w", h.Name, err)
		}

		target := domain.CategoryTarget{CategoryID: id, CategoryName: h.Name, TargetRatio: ratio}
		if err := target.Validate(); err != nil {
			return nil, nil, fmt.Errorf("category %q: %w", h.Name, err)
		}

		targets = append(targets, target)
		amounts = append(amounts, domain.ResolvedAmount{CategoryID: id, Amount: amount})
	}

	return amounts, targets, nil
}

// parseDecimal treats an empty value as zero
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
