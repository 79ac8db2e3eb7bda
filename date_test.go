package cgt

import (
	"testing"
	"time"
)

func TestParseTradeDate(t *testing.T) {
	testCases := []struct {
		in   string
		want Date
	}{
		{"2024-12-19", NewDate(2024, time.December, 19)},
		{"2024-6-1", NewDate(2024, time.June, 1)},
		{"19/12/2024", NewDate(2024, time.December, 19)},
		{"19/12/24", NewDate(2024, time.December, 19)},
		{"01/05/25", NewDate(2025, time.May, 1)},
		{"12.2.21", NewDate(2021, time.February, 12)},
		{"23.6.2021", NewDate(2021, time.June, 23)},
		{"19-12-24", NewDate(2024, time.December, 19)},
		{"19-12-2024", NewDate(2024, time.December, 19)},
		{" 19/12/24 ", NewDate(2024, time.December, 19)},
	}
	for _, tc := range testCases {
		got, err := ParseTradeDate(tc.in)
		if err != nil {
			t.Errorf("ParseTradeDate(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTradeDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTradeDate_PivotRule(t *testing.T) {
	// 00-49 resolve to 2000-2049, 50-99 to 1950-1999. Years before 2000 are
	// outside the plausible statement window and must be rejected.
	got, err := ParseTradeDate("1/1/49")
	if err != nil {
		t.Fatalf("ParseTradeDate(1/1/49) error = %v", err)
	}
	if got.Year() != 2049 {
		t.Errorf("ParseTradeDate(1/1/49) year = %d, want 2049", got.Year())
	}

	if _, err := ParseTradeDate("1/1/52"); err == nil {
		t.Errorf("ParseTradeDate(1/1/52) resolves to 1952, expected rejection")
	}
}

func TestParseTradeDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "19/13/2024", "2024/12/19"} {
		if _, err := ParseTradeDate(in); err == nil {
			t.Errorf("ParseTradeDate(%q) expected error, got none", in)
		}
	}
}

func TestDate_Sub(t *testing.T) {
	a := NewDate(2023, time.January, 1)
	b := NewDate(2024, time.June, 1)
	if got := b.Sub(a); got != 517 {
		t.Errorf("Sub() = %d, want 517", got)
	}
	if got := a.Sub(b); got != -517 {
		t.Errorf("Sub() reversed = %d, want -517", got)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 3)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"2024-06-03"` {
		t.Errorf("MarshalJSON() = %s, want %q", data, "2024-06-03")
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}
