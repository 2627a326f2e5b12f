// Package reportdate validates user-chosen report dates and converts them to
// the YYYY-MM-DD wire format the report endpoint expects.
package reportdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical wire format.
const Layout = "2006-01-02"

var (
	// ErrMissing indicates no date has been chosen.
	ErrMissing = errors.New("select a date")

	// ErrMalformed indicates the input is not a calendar date.
	ErrMalformed = errors.New("use YYYY-MM-DD")
)

// accepted text layouts; single-digit month/day layouts also accept zero-padded input.
var textLayouts = []string{
	"2006-1-2",
	"2006/1/2",
}

// Value is a user-supplied date from either a text field or a picker.
// The zero Value means nothing was chosen.
type Value struct {
	text   string
	picked time.Time
	picker bool
}

// FromText wraps text typed into a date field.
func FromText(s string) Value {
	return Value{text: s}
}

// FromPicker wraps a structured picker selection. Only the calendar day in
// t's own location is used.
func FromPicker(t time.Time) Value {
	return Value{picked: t, picker: true}
}

// Date is a normalized calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String renders the canonical wire form, e.g. "2024-03-05".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Value returns d as text input, so Normalize(d.Value()) == d.
func (d Date) Value() Value {
	return FromText(d.String())
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the calendar day n days after d.
func (d Date) AddDays(n int) Date {
	return Of(d.Time(time.UTC).AddDate(0, 0, n))
}

// Of returns the calendar day of t in t's location, without converting zones.
func Of(t time.Time) Date {
	y, m, day := t.Date()
	return Date{Year: y, Month: m, Day: day}
}

// Normalize validates v and returns its calendar day.
// It fails with ErrMissing when nothing was chosen and ErrMalformed when the
// text is not a valid calendar date. It has no side effects.
func Normalize(v Value) (Date, error) {
	if v.picker {
		if v.picked.IsZero() {
			return Date{}, ErrMissing
		}
		return Of(v.picked), nil
	}

	s := strings.TrimSpace(v.text)
	if s == "" {
		return Date{}, ErrMissing
	}
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Of(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrMalformed, s)
}

// Message returns the form-level text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissing):
		return "Select a date first."
	case errors.Is(err, ErrMalformed):
		return "Enter the date as YYYY-MM-DD."
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}
