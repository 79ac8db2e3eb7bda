package cgt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecodeParcels(t *testing.T) {
	jsonl := `
{"symbol":"BHP","date":"2023-01-01","units":100,"price":10,"commission":0,"currency":"AUD"}

{"symbol":"AAPL","date":"2024-01-15","units":50.5,"price":66,"commission":9.5,"currency":"USD"}
`
	parcels, err := DecodeParcels("parcels.jsonl", strings.NewReader(jsonl))
	if err != nil {
		t.Fatalf("DecodeParcels() error: %v", err)
	}
	if len(parcels) != 2 {
		t.Fatalf("DecodeParcels() = %d parcels, want 2 (blank lines skipped)", len(parcels))
	}
	if parcels[0].Symbol != "BHP" || parcels[0].PurchaseDate != NewDate(2023, time.January, 1) {
		t.Errorf("parcels[0] = %s", parcels[0])
	}
	if !parcels[1].Units.Equal(Q(50.5)) || !parcels[1].UnitPrice.Equal(M(66, "USD")) {
		t.Errorf("parcels[1] = %s", parcels[1])
	}
	if parcels[1].Currency() != "USD" {
		t.Errorf("parcels[1] currency = %q, want USD", parcels[1].Currency())
	}
}

func TestDecodeParcels_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"zero units", `{"symbol":"BHP","date":"2023-01-01","units":0,"price":10,"currency":"AUD"}`, "units must be positive"},
		{"negative commission", `{"symbol":"BHP","date":"2023-01-01","units":10,"price":10,"commission":-5,"currency":"AUD"}`, "commission must not be negative"},
		{"malformed json", `{"symbol":`, "parcels.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeParcels("parcels.jsonl", strings.NewReader(tt.line))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DecodeParcels() error = %v, want one containing %q", err, tt.want)
			}
		})
	}
}

func TestDecodeSales(t *testing.T) {
	jsonl := `{"symbol":"BHP","date":"2024-06-01","quantity":150,"price":20,"commission":30,"currency":"AUD"}`
	sales, err := DecodeSales("sales.jsonl", strings.NewReader(jsonl))
	if err != nil {
		t.Fatalf("DecodeSales() error: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("DecodeSales() = %d sales, want 1", len(sales))
	}
	s := sales[0]
	if s.Symbol != "BHP" || !s.Quantity.Equal(Q(150)) || !s.Commission.Equal(aud(30)) {
		t.Errorf("sale = %+v", s)
	}
}

func TestEncodeDisposals(t *testing.T) {
	engine, sale := engineScenario(TaxOptimalPolicy{})
	report := engine.Run([]Sale{sale})

	var buf strings.Builder
	if err := EncodeDisposals(&buf, report); err != nil {
		t.Fatalf("EncodeDisposals() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("EncodeDisposals() wrote %d lines, want 2", len(lines))
	}
	for _, want := range []string{`"taxableGain":"500"`, `"phase":"LONG-TERM"`, `"daysHeld":517`, `"currency":"AUD"`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("first line missing %s:\n%s", want, lines[0])
		}
	}
	if !strings.Contains(lines[1], `"phase":"SHORT-TERM"`) {
		t.Errorf("second line should be the short-term lot:\n%s", lines[1])
	}
}

func TestEncodeConversions(t *testing.T) {
	c := NewConverter(testTable(t), "AUD")
	// June 8 falls back to the June 3 rate.
	if _, _, err := c.Convert(M(66, "USD"), NewDate(2024, time.June, 8), "sale price"); err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	var buf strings.Builder
	if err := EncodeConversions(&buf, c.Audit()); err != nil {
		t.Fatalf("EncodeConversions() error: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	for _, want := range []string{`"date":"2024-06-08"`, `"rateDate":"2024-06-03"`, `"fallback":true`, `"from":"USD"`, `"to":"AUD"`, `"context":"sale price"`} {
		if !strings.Contains(line, want) {
			t.Errorf("audit line missing %s:\n%s", want, line)
		}
	}
}

// rbaSample mimics the layout of an RBA FX CSV export: metadata lines, a
// series header, then one date,rate line per business day.
const rbaSample = `Title,USD/AUD Exchange Rate
Description,Units of foreign currency per AUD
Frequency,Daily
Source,RBA
Series ID,FXRUSD

03-Jun-2024,0.6600
04-Jun-2024,0.6612
05-Jun-2024,not-a-rate
garbage line without structure
06-Jun-2024,0.6585
`

func TestDecodeRateCSV(t *testing.T) {
	table := NewRateTable()
	loaded, err := DecodeRateCSV("fx.csv", strings.NewReader(rbaSample), table)
	if err != nil {
		t.Fatalf("DecodeRateCSV() error: %v", err)
	}
	if loaded != 3 {
		t.Errorf("loaded = %d rates, want 3 (headers and junk skipped)", loaded)
	}
	rate, _, ok := table.RateAsOf(NewDate(2024, time.June, 4), DefaultRateLookback)
	if !ok || !rate.Equal(decimal.NewFromFloat(0.6612)) {
		t.Errorf("RateAsOf(2024-06-04) = %s %v, want 0.6612", rate, ok)
	}
}
