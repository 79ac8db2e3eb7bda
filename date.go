package cgt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

const day = 24 * time.Hour

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, d int) Date {
	dt := Date{year, month, d}
	dt.y, dt.m, dt.d = dt.time().Date()
	return dt
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format formats the date with a time.Time layout.
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Sub returns the number of calendar days between d and x (positive when d is after x).
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()) / day) }

// ParseDate parses a Date from a string in ISO-8601 format. It is lenient and
// accepts single-digit month and day, like "2025-7-1". It is the format used
// in data files, where anything more permissive would hide corruption.
func ParseDate(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParse is like ParseDate but panics on error.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// SentinelDate is substituted for unparseable trade or purchase dates at the
// ingestion boundary, so that one malformed row does not abort a whole batch.
// Callers receiving it must also receive a warning.
var SentinelDate = NewDate(2020, time.January, 1)

// tradeDateFormats are the broker-statement encodings accepted at the
// boundary, in order of likelihood. Four-digit-year layouts come first so a
// two-digit layout never claims a four-digit value.
var tradeDateFormats = []string{
	readDateFormat, // 2024-12-19
	"2/1/2006",     // 19/12/2024
	"2.1.2006",     // 12.2.2021
	"2-1-2006",     // 19-12-2024
	"2/1/06",       // 19/12/24
	"2.1.06",       // 12.2.21
	"2-1-06",       // 19-12-24
}

// ParseTradeDate parses a broker-statement date. It accepts ISO, day-first
// slash/dot/dash variants, and 2-digit years resolved by a pivot rule
// (00-49 are 2000-2049, 50-99 are 1950-1999).
//
// Values that parse under no known format, or whose year falls outside the
// plausible window, return an error; callers substitute [SentinelDate] and
// emit a warning rather than aborting the batch.
func ParseTradeDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, fmt.Errorf("empty date")
	}

	for _, format := range tradeDateFormats {
		on, err := time.Parse(format, str)
		if err != nil {
			continue
		}
		year := on.Year()
		// Go resolves 2-digit years on a 69 pivot; move 2050-2068 back a
		// century to honor the 00-49/50-99 rule.
		if year >= 2050 && strings.Contains(format, "06") && !strings.Contains(format, "2006") {
			year -= 100
		}
		d := NewDate(year, on.Month(), on.Day())
		// Statements older than 2000 or dated in the far future are more
		// likely a mis-parse under this format than a real trade.
		if d.y < 2000 || d.y > 2099 {
			continue
		}
		return d, nil
	}
	return Date{}, fmt.Errorf("invalid trade date %q: no known format matches", str)
}

// UnmarshalJSON implements the json specific way to unmarshal a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	// Keep this parsing strict, as it's for data files.
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, DateFormat, err)
	}
	*d = NewDate(on.Date())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshal/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
