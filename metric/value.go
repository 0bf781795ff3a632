package metric

import (
	"regexp"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of [Value].
type ValueKind int

const (
	// None means the metric's label/value pair was not found on the page
	// with the extractor's strategy. It is valid output, not a failure.
	None ValueKind = iota
	// Number means the raw text coerced to a numeric value.
	Number
	// Text means the raw text did not contain a numeric token and is
	// returned unchanged. Not every metric is numeric.
	Text
)

// Value is the coerced result of a metric read: a number, the original text,
// or nothing. The zero Value has kind [None].
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

var (
	// fullNumeric matches a whole trimmed string of the form
	// "-12", "1.25", "43%", "43 %".
	fullNumeric = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*%?$`)
	// embeddedNumber finds a numeric token anywhere in a string.
	embeddedNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Coerce converts a raw extracted string into a [Value]. A string that is
// entirely numeric, optionally with a trailing percent sign, becomes a
// number; the percent sign is stripped and the magnitude kept unscaled, so
// "43%" coerces to 43, not 0.43. Otherwise the first embedded numeric token
// is used, so "Rank: 7th" coerces to 7. A string with no digits at all is
// returned unchanged as text.
func Coerce(raw string) Value {
	raw = strings.TrimSpace(raw)
	if m := fullNumeric.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return Value{Kind: Number, Number: n}
	}
	if tok := embeddedNumber.FindString(raw); tok != "" {
		n, _ := strconv.ParseFloat(tok, 64)
		return Value{Kind: Number, Number: n}
	}
	return Value{Kind: Text, Text: raw}
}
