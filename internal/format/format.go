// Package format turns snapshot numbers, timestamps and flags into display
// strings. Every function is total: missing or non-finite input renders as
// Placeholder instead of failing.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Placeholder is shown for any absent value.
	Placeholder = "-"

	// Rupee prefixes every currency amount.
	Rupee = "₹"

	displayLayout = "2 Jan 2006, 03:04:05 pm"
)

// IST is the display zone. A fixed zone keeps output independent of tzdata.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// fixed rounds half away from zero and renders exactly places decimals.
func fixed(v float64, places int) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places)), true
}

// Currency renders v with two decimals, keeping a leading minus: ₹-12.00.
func Currency(v float64) string {
	s, ok := fixed(v, 2)
	if !ok {
		return Placeholder
	}
	return Rupee + s
}

// DecimalCurrency renders an exact amount with two decimals.
func DecimalCurrency(d decimal.Decimal) string {
	return Rupee + d.StringFixed(2)
}

// SignedCurrency is Currency with a "+" on non-negative amounts.
func SignedCurrency(v float64) string {
	s, ok := fixed(v, 2)
	if !ok {
		return Placeholder
	}
	if !strings.HasPrefix(s, "-") {
		return "+" + Rupee + s
	}
	return Rupee + s
}

// PnL renders a trade's P&L. Only amounts that are positive after rounding
// get a "+", so 0 and 0.004 both render as ₹0.00.
func PnL(v *float64) string {
	if v == nil {
		return Placeholder
	}
	s, ok := fixed(*v, 2)
	if !ok {
		return Placeholder
	}
	if decimal.RequireFromString(s).IsPositive() {
		return "+" + Rupee + s
	}
	return Rupee + s
}

// Magnitude renders |v| as currency, for fields such as drawdown.
func Magnitude(v float64) string {
	return Currency(math.Abs(v))
}

// OptMagnitude is Magnitude for an optional field.
func OptMagnitude(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return Magnitude(*v)
}

// Percent renders v (already in percent units) with the given precision.
func Percent(v float64, places int) string {
	s, ok := fixed(v, places)
	if !ok {
		return Placeholder
	}
	return s + "%"
}

// Ratio renders a plain number such as profit factor.
func Ratio(v float64, places int) string {
	s, ok := fixed(v, places)
	if !ok {
		return Placeholder
	}
	return s
}

// OptRatio is Ratio for an optional field.
func OptRatio(v *float64, places int) string {
	if v == nil {
		return Placeholder
	}
	return Ratio(*v, places)
}

// Int renders an optional count.
func Int(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

// Text renders s, or Placeholder when it is blank.
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Flag renders an optional boolean as one of two labels.
func Flag(b *bool, on, off string) string {
	if b == nil {
		return Placeholder
	}
	if *b {
		return on
	}
	return off
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants the backend emits. Values
// without an offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timestamp renders s in IST, e.g. "15 Jan 2025, 09:30:00 am". Empty input
// gives Placeholder; text that does not parse is returned unchanged.
func Timestamp(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.In(IST).Format(displayLayout)
}

// OptTimestamp is Timestamp for an optional field.
func OptTimestamp(s *string) string {
	if s == nil {
		return Placeholder
	}
	return Timestamp(*s)
}
