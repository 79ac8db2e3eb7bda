// Package cmd implements the CLI application to compute Australian capital
// gains tax on parcel disposals.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	cgt "github.com/Roifine/enhanced-cgt-calculator"
	"github.com/google/subcommands"
)

// Commands lists every subcommand of the application. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&disposalsCmd{},
	&compareCmd{},
	&convertCmd{},
	&holdingsCmd{},
	&updateCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var parcelsFile = flag.String("parcels-file", "parcels.jsonl", "Path to the purchase parcels file (JSONL format)")
var salesFile = flag.String("sales-file", "sales.jsonl", "Path to the sales file (JSONL format)")
var ratesDir = flag.String("rates-dir", ".rates", "Path to the folder of RBA FX CSV exports")
var homeCurrency = flag.String("currency", "AUD", "Home currency all amounts are reported in")

// DecodeParcelsFile reads the app parcels file. A .csv file is read as a
// broker statement export, anything else as JSONL.
func DecodeParcelsFile() ([]cgt.Parcel, error) {
	f, err := os.Open(*parcelsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if filepath.Ext(*parcelsFile) == ".csv" {
		parcels, warnings, err := cgt.DecodeParcelCSV(*parcelsFile, f)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		return parcels, err
	}
	return cgt.DecodeParcels(*parcelsFile, f)
}

// DecodeSalesFile reads the app sales file, with the same .csv handling as
// DecodeParcelsFile.
func DecodeSalesFile() ([]cgt.Sale, error) {
	f, err := os.Open(*salesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if filepath.Ext(*salesFile) == ".csv" {
		sales, warnings, err := cgt.DecodeSaleCSV(*salesFile, f)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		return sales, err
	}
	return cgt.DecodeSales(*salesFile, f)
}

// LoadRateTable loads every CSV file in the app rates folder into one table.
// Per-file problems are warnings on stderr; an empty folder yields an empty
// table, which is fine for a home-currency-only book.
func LoadRateTable() (*cgt.RateTable, error) {
	files, err := filepath.Glob(filepath.Join(*ratesDir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return cgt.NewRateTable(), nil
	}
	table, warnings, err := cgt.LoadRates(files...)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// loadLedger reads the parcels file and converts every parcel to the home
// currency, printing drop warnings to stderr.
func loadLedger(converter *cgt.Converter) (*cgt.ParcelLedger, error) {
	parcels, err := DecodeParcelsFile()
	if err != nil {
		return nil, err
	}
	ledger := cgt.NewParcelLedger()
	ledger.Add(parcels...)

	converted, warnings := cgt.ConvertLedger(ledger, converter)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return converted, nil
}
