package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
	"github.com/google/subcommands"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	foreign string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch the latest exchange rate into the rates folder" }
func (*updateCmd) Usage() string {
	return `cgtcalc update [-foreign <currency>]

  Fetches the latest published AUD rate for a foreign currency and appends it
  to the rates folder, so recent transactions convert without a manual RBA
  export. Responses are cached for the day.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.foreign, "foreign", "USD", "Foreign currency to fetch the rate for")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, rate, err := cgt.FetchLatestRate(c.foreign)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s rate: %v\n", c.foreign, err)
		return subcommands.ExitFailure
	}

	if err := os.MkdirAll(*ratesDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating rates folder %q: %v\n", *ratesDir, err)
		return subcommands.ExitFailure
	}
	filename := filepath.Join(*ratesDir, "fetched.csv")
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rate file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s,%s\n", cgt.FormatRBADate(on), rate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rate file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Appended %s rate %s for %s to %s\n", c.foreign, rate, on, filename)
	return subcommands.ExitSuccess
}
