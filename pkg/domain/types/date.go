package types

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the wire and storage format of Date
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The empty Date means "not set".
type Date string

// NewDate converts a time into a Date using its calendar day
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses and validates a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	d := Date(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == ""
}

// Validate checks the date is empty or a real calendar date
func (d Date) Validate() error {
	if d.IsZero() {
		return nil
	}
	if _, err := time.Parse(DateLayout, string(d)); err != nil {
		return goerr.Wrap(err, "invalid date, expected YYYY-MM-DD", goerr.V("date", string(d)))
	}
	return nil
}

// Before reports whether d is strictly earlier than other. Unset dates are
// never before anything.
func (d Date) Before(other Date) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	// YYYY-MM-DD sorts lexically in calendar order
	return d < other
}

// String returns the string representation of the date
func (d Date) String() string {
	return string(d)
}
