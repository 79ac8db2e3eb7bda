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

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	amount   float64
	from     string
	date     string
	lookback int
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount at a historical rate" }
func (*convertCmd) Usage() string {
	return `cgtcalc convert -amount <amount> -from <currency> [-date <date>] [-lookback <days>]

  Converts a single amount to the home currency at the given date's rate,
  showing the audit record including any backward fallback.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "Amount to convert")
	f.StringVar(&c.from, "from", "USD", "Currency of the amount")
	f.StringVar(&c.date, "date", cgt.Today().String(), "Date of the conversion. See 'topic file-formats' for supported formats.")
	f.IntVar(&c.lookback, "lookback", cgt.DefaultRateLookback, "Maximum days to look backward for a rate")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := cgt.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	table, err := LoadRateTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates from %q: %v\n", *ratesDir, err)
		return subcommands.ExitFailure
	}

	converter := cgt.NewConverter(table, *homeCurrency).WithLookback(c.lookback)
	out, _, err := converter.Convert(cgt.M(c.amount, c.from), on, "convert command")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s = %s\n\n", cgt.M(c.amount, c.from), out)
	printMarkdown(renderer.AuditMarkdown(*homeCurrency, converter.Audit()))
	return subcommands.ExitSuccess
}
