package format

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func f(v float64) *float64 { return &v }

func TestPnL(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "-"},
		{f(0), "₹0.00"},
		{f(0.005), "+₹0.01"},
		{f(0.004), "₹0.00"},
		{f(-0.005), "₹-0.01"},
		{f(100), "+₹100.00"},
		{f(-50), "₹-50.00"},
		{f(1234.565), "+₹1234.57"},
		{f(math.NaN()), "-"},
		{f(math.Inf(1)), "-"},
	}
	for _, tt := range tests {
		if got := PnL(tt.in); got != tt.want {
			t.Fatalf("PnL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrencyVariants(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"currency", Currency(1500), "₹1500.00"},
		{"currency negative", Currency(-12), "₹-12.00"},
		{"signed zero", SignedCurrency(0), "+₹0.00"},
		{"signed negative", SignedCurrency(-3.456), "₹-3.46"},
		{"magnitude", Magnitude(-2450.5), "₹2450.50"},
		{"opt magnitude nil", OptMagnitude(nil), "-"},
		{"currency nan", Currency(math.NaN()), "-"},
		{"decimal", DecimalCurrency(decimal.RequireFromString("450.305")), "₹450.31"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestPercentAndRatio(t *testing.T) {
	if got := Percent(55.555, 2); got != "55.56%" {
		t.Fatalf("Percent(55.555, 2) = %q", got)
	}
	if got := Percent(55.555, 1); got != "55.6%" {
		t.Fatalf("Percent(55.555, 1) = %q", got)
	}
	if got := Percent(math.NaN(), 2); got != "-" {
		t.Fatalf("Percent(NaN) = %q", got)
	}
	if got := Ratio(1.5, 2); got != "1.50" {
		t.Fatalf("Ratio(1.5, 2) = %q", got)
	}
	if got := OptRatio(nil, 2); got != "-" {
		t.Fatalf("OptRatio(nil) = %q", got)
	}
	if got := OptRatio(f(3.14159), 1); got != "3.1" {
		t.Fatalf("OptRatio(3.14159, 1) = %q", got)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "-"},
		{"   ", "-"},
		{"2025-01-15T04:00:00Z", "15 Jan 2025, 09:30:00 am"},
		{"2025-01-15T04:00:00", "15 Jan 2025, 09:30:00 am"},
		{"2025-01-15T15:45:10+05:30", "15 Jan 2025, 03:45:10 pm"},
		{"2025-01-15T10:15:10.123456+05:30", "15 Jan 2025, 10:15:10 am"},
		{"2025-01-15 18:30:00", "16 Jan 2025, 12:00:00 am"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		if got := Timestamp(tt.in); got != tt.want {
			t.Fatalf("Timestamp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := OptTimestamp(nil); got != "-" {
		t.Fatalf("OptTimestamp(nil) = %q", got)
	}
}

func TestTextFlagInt(t *testing.T) {
	on, off := true, false
	n := 7
	if Flag(&on, "ON", "OFF") != "ON" || Flag(&off, "ON", "OFF") != "OFF" || Flag(nil, "ON", "OFF") != "-" {
		t.Fatalf("Flag rendered unexpected values")
	}
	if Text("") != "-" || Text("BUY") != "BUY" {
		t.Fatalf("Text rendered unexpected values")
	}
	if Int(nil) != "-" || Int(&n) != "7" {
		t.Fatalf("Int rendered unexpected values")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		got  Tone
		want Tone
	}{
		{"positive", Classify(0.01), Positive},
		{"negative", Classify(-1), Negative},
		{"zero", Classify(0), Neutral},
		{"nan", Classify(math.NaN()), Neutral},
		{"nil", ClassifyPtr(nil), Neutral},
		{"at threshold", ClassifyAtLeast(50, 50), Positive},
		{"below threshold", ClassifyAtLeast(49.99, 50), Negative},
		{"zero meets zero", ClassifyAtLeast(0, 0), Positive},
		{"opt nil", OptClassifyAtLeast(nil, 1), Neutral},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %s want %s", tt.name, tt.got, tt.want)
		}
	}
}
