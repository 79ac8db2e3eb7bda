// Command cgtcalc computes Australian capital gains tax on parcel disposals.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/Roifine/enhanced-cgt-calculator/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: when invoked by the completion hook this prints the
	// candidates and exits, otherwise it is a no-op.
	completion().Complete("cgtcalc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	globalFlags := map[string]complete.Predictor{
		"parcels-file": predict.Files("*.jsonl"),
		"sales-file":   predict.Files("*.jsonl"),
		"rates-dir":    predict.Dirs("*"),
		"currency":     predict.Set{"AUD", "USD", "EUR", "GBP", "NZD", "JPY"},
	}
	return &complete.Command{
		Flags: globalFlags,
		Sub: map[string]*complete.Command{
			"disposals": {Flags: map[string]complete.Predictor{
				"policy": predict.Set{"tax-optimal", "fifo"},
				"o":      predict.Files("*.jsonl"),
				"audit":  predict.Files("*.jsonl"),
			}},
			"compare": {},
			"convert": {Flags: map[string]complete.Predictor{
				"amount":   predict.Nothing,
				"from":     predict.Set{"USD", "EUR", "GBP", "NZD", "JPY"},
				"date":     predict.Nothing,
				"lookback": predict.Nothing,
			}},
			"holdings": {Flags: map[string]complete.Predictor{
				"d":           predict.Nothing,
				"after-sales": predict.Nothing,
			}},
			"update": {Flags: map[string]complete.Predictor{
				"foreign": predict.Set{"USD", "EUR", "GBP", "NZD", "JPY"},
			}},
			"topic": {Args: predict.Set{"readme", "cgt-discount", "policies", "rate-fallback", "file-formats"}},
			"assist": {},
		},
	}
}
