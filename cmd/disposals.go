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

// disposalsCmd holds the flags for the 'disposals' subcommand.
type disposalsCmd struct {
	policy     string
	outputFile string
	auditFile  string
}

func (*disposalsCmd) Name() string     { return "disposals" }
func (*disposalsCmd) Synopsis() string { return "compute per-lot capital gains for the sales file" }
func (*disposalsCmd) Usage() string {
	return `cgtcalc disposals [-policy <policy>] [-o <file>] [-audit <file>]

  Matches every sale against the purchase parcels, consuming parcels with the
  selected policy, and reports the taxable gain per consumed lot.
`
}

func (c *disposalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.policy, "policy", "tax-optimal", "Parcel selection policy (tax-optimal, fifo)")
	f.StringVar(&c.outputFile, "o", "", "Write disposal records as JSONL to this file instead of rendering")
	f.StringVar(&c.auditFile, "audit", "", "Write the currency conversion audit trail as JSONL to this file")
}

func (c *disposalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	policy, err := cgt.ParsePolicy(c.policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing policy: %v\n", err)
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
	sales, err := DecodeSalesFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sales %q: %v\n", *salesFile, err)
		return subcommands.ExitFailure
	}

	engine := cgt.NewDisposalEngine(ledger, converter, policy)
	report := engine.Run(sales)

	if c.auditFile != "" {
		if err := writeJSONL(c.auditFile, func(w *os.File) error {
			return cgt.EncodeConversions(w, converter.Audit())
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing audit file: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if c.outputFile != "" {
		if err := writeJSONL(c.outputFile, func(w *os.File) error {
			return cgt.EncodeDisposals(w, report)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %d disposal records to %s\n", len(report.Records), c.outputFile)
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.DisposalsMarkdown(report))
	return subcommands.ExitSuccess
}

// writeJSONL creates the file and hands it to fn.
func writeJSONL(filename string, fn func(w *os.File) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
