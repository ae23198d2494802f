package shared

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts are tried in order when decoding a Date
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Date is an instant that may be missing or unparsable.
// Records keep invalid dates instead of failing to decode so the
// calculation that needs the field can report it.
type Date struct {
	Time  time.Time
	Valid bool
	Raw   string
}

// NewDate wraps a valid instant
func NewDate(t time.Time) Date {
	return Date{Time: t, Valid: true}
}

// MustParseDate parses a YYYY-MM-DD or RFC 3339 value and panics on error.
// Intended for fixtures.
func MustParseDate(s string) Date {
	d := ParseDate(s)
	if !d.Valid {
		panic("invalid date: " + s)
	}
	return d
}

// ParseDate parses s using the accepted layouts. An empty or unparsable
// value yields an invalid Date that remembers the raw input.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t, Valid: true, Raw: s}
		}
	}
	return Date{Raw: s}
}

// IsZero reports whether the date is missing (neither valid nor raw input)
func (d Date) IsZero() bool {
	return !d.Valid && d.Raw == ""
}

// Instant returns the time used for ordering. Invalid dates order as the
// earliest possible instant.
func (d Date) Instant() time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

// String renders the date as RFC 3339, the raw input when invalid
func (d Date) String() string {
	if !d.Valid {
		return d.Raw
	}
	return d.Time.Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		if d.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(d.Raw)
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on a string
// value; unparsable input is kept as an invalid Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{Raw: string(data)}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
