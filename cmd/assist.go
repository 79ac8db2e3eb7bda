package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
	"github.com/Roifine/enhanced-cgt-calculator/agent"
	"github.com/Roifine/enhanced-cgt-calculator/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI analyst.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask an AI analyst about the disposal run" }
func (*assistCmd) Usage() string {
	return `cgtcalc assist [question]

  Computes the disposal run and the strategy comparison, then starts an
  interactive session with an AI analyst grounded in those reports.
  Requires Gemini credentials in the environment.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	table, err := LoadRateTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates from %q: %v\n", *ratesDir, err)
		return subcommands.ExitFailure
	}
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
	reports := []string{
		renderer.DisposalsMarkdown(summary.TaxOptimal.Report),
		renderer.ComparisonMarkdown(summary),
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, reports...)
	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Analyst failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
