package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
	"github.com/Roifine/enhanced-cgt-calculator/renderer"
	"github.com/google/subcommands"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct{}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare tax-optimal and fifo outcomes" }
func (*compareCmd) Usage() string {
	return `cgtcalc compare

  Runs the sales file against independent copies of the parcel ledger under
  the tax-optimal and fifo policies and reports the tax savings.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {}

func (c *compareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table, err := LoadRateTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates from %q: %v\n", *ratesDir, err)
		return subcommands.ExitFailure
	}

	// The ledger is loaded once; CompareStrategies clones it per policy.
	ledger, err := loadLedger(cgt.NewConverter(table, *homeCurrency))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading parcels %q: %v\n", *parcelsFile, err)
		return subcommands.ExitFailure
	}
	sales, err := DecodeSalesFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sales %q: %v\n", *salesFile, err)
		return subcommands.ExitFailure
	}

	summary := cgt.CompareStrategies(sales, ledger, table, *homeCurrency)
	printMarkdown(renderer.ComparisonMarkdown(summary))
	return subcommands.ExitSuccess
}
