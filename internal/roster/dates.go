package roster

// dates.go holds the calendar handling behind registration and fee
// expiry: parsing the messy timestamp column the form writes into the
// sheet, and advancing a date by whole months.
//
// Form timestamps arrive in the sheet locale's slash form, but manual
// edits introduce ISO dates and the occasional RFC3339 string, so
// parsing walks a layout table the same way cell dates are usually
// handled. Unparseable input is not an error here; the caller falls
// back to the processing time.

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical serialized form for calendar dates.
const DateLayout = "2006-01-02"

// timestampLayouts are tried in order. Slash layouts are month-first,
// matching what the form writes.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// Date is a calendar day without a time component. The zero value is an
// invalid date and reports IsZero.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ParseTimestamp parses a sheet timestamp cell against the known
// layouts. ok is false for empty or unrecognized input.
func ParseTimestamp(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}

	return Date{}, false
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddMonths advances d by n calendar months, keeping the day-of-month.
// When the target month is shorter, the day clamps to the month's last
// day (Jan 31 + 1 month = Feb 28, or Feb 29 in leap years) rather than
// rolling into the following month.
func (d Date) AddMonths(n int) Date {
	months := int(d.Month) - 1 + n
	year := d.Year + months/12
	months %= 12
	if months < 0 {
		months += 12
		year--
	}
	month := time.Month(months + 1)

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}

	return Date{Year: year, Month: month, Day: day}
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day zero of the next month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalJSON encodes the canonical form as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts the canonical form; null leaves d unchanged.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
