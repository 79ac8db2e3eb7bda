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

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	date       string
	afterSales bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show remaining parcels and their CGT classification" }
func (*holdingsCmd) Usage() string {
	return `cgtcalc holdings [-d <date>] [-after-sales]

  Lists the parcels on hand with cost basis and long/short-term status as of
  a date. With -after-sales the sales file is applied first, so the listing
  shows what a full disposal run leaves behind.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", cgt.Today().String(), "Date the classification is computed against")
	f.BoolVar(&c.afterSales, "after-sales", false, "Apply the sales file before listing")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := cgt.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	table, err := LoadRateTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates from %q: %v\n", *ratesDir, err)
		return subcommands.ExitFailure
	}
	converter := cgt.NewConverter(table, *homeCurrency)

	ledger, err := loadLedger(converter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading parcels %q: %v\n", *parcelsFile, err)
		return subcommands.ExitFailure
	}

	if c.afterSales {
		sales, err := DecodeSalesFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading sales %q: %v\n", *salesFile, err)
			return subcommands.ExitFailure
		}
		report := cgt.NewDisposalEngine(ledger, converter, cgt.TaxOptimalPolicy{}).Run(sales)
		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}

	printMarkdown(renderer.HoldingsMarkdown(ledger, asOf))
	return subcommands.ExitSuccess
}
