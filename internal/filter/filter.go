package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/jefrnc/optionsdash/internal/models"
)

// All is the sentinel that disables an enum predicate.
const All = "all"

// Predicates is the set of trade filters edited by the user.
// Every field has an inactive value: All (or "") for the enum fields and
// "" for the text fields. Bounds hold raw input text and are parsed on use.
type Predicates struct {
	OptionType   string `json:"optionType" form:"option_type"`
	ExitReason   string `json:"exitReason" form:"exit_reason"`
	StrikeSearch string `json:"strikeSearch" form:"strike"`
	MinPnL       string `json:"minPnL" form:"min_pnl"`
	MaxPnL       string `json:"maxPnL" form:"max_pnl"`
}

// Defaults returns the predicate set with every filter inactive.
func Defaults() Predicates {
	return Predicates{OptionType: All, ExitReason: All}
}

// Field names accepted by Set. They match the JSON keys of Predicates.
const (
	FieldOptionType   = "optionType"
	FieldExitReason   = "exitReason"
	FieldStrikeSearch = "strikeSearch"
	FieldMinPnL       = "minPnL"
	FieldMaxPnL       = "maxPnL"

	// legacyStrikeSearch is the name the web frontend used.
	legacyStrikeSearch = "searchStrike"
)

// Set returns a copy of p with one field replaced. Unknown fields leave p unchanged
// and report false.
func (p Predicates) Set(field, value string) (Predicates, bool) {
	switch field {
	case FieldOptionType:
		p.OptionType = value
	case FieldExitReason:
		p.ExitReason = value
	case FieldStrikeSearch, legacyStrikeSearch:
		p.StrikeSearch = value
	case FieldMinPnL:
		p.MinPnL = value
	case FieldMaxPnL:
		p.MaxPnL = value
	default:
		return p, false
	}
	return p, true
}

// Active reports whether any predicate restricts the result.
func (p Predicates) Active() bool {
	_, hasMin := ParseBound(p.MinPnL)
	_, hasMax := ParseBound(p.MaxPnL)
	return enumActive(p.OptionType) || enumActive(p.ExitReason) || p.StrikeSearch != "" || hasMin || hasMax
}

// ParseBound parses a P&L bound typed by the user. Empty, non-numeric and
// NaN input is reported as unset, never as zero.
func ParseBound(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Apply returns the trades matching every active predicate, preserving
// input order. The result is never nil and never aliases trades.
func Apply(trades []models.TradeRecord, p Predicates) []models.TradeRecord {
	m := compile(p)

	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if m.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ExitReasons lists the distinct non-empty exit reasons in first-seen order.
func ExitReasons(trades []models.TradeRecord) []string {
	seen := make(map[string]bool)
	var reasons []string
	for _, t := range trades {
		if t.ExitReason == "" || seen[t.ExitReason] {
			continue
		}
		seen[t.ExitReason] = true
		reasons = append(reasons, t.ExitReason)
	}
	return reasons
}

// StrikeText renders a strike the way the strike search sees it:
// shortest decimal form, no grouping, no trailing zeros.
func StrikeText(strike float64) string {
	return strconv.FormatFloat(strike, 'f', -1, 64)
}

// matcher is Predicates with the bounds parsed once per Apply.
type matcher struct {
	optionType string
	exitReason string
	strike     string
	min, max   float64
	hasMin     bool
	hasMax     bool
}

func compile(p Predicates) matcher {
	m := matcher{strike: p.StrikeSearch}
	if enumActive(p.OptionType) {
		m.optionType = p.OptionType
	}
	if enumActive(p.ExitReason) {
		m.exitReason = p.ExitReason
	}
	m.min, m.hasMin = ParseBound(p.MinPnL)
	m.max, m.hasMax = ParseBound(p.MaxPnL)
	return m
}

// match checks the cheap equality tests first, then the substring, then bounds.
func (m matcher) match(t models.TradeRecord) bool {
	if m.optionType != "" && string(t.OptionType) != m.optionType {
		return false
	}
	if m.exitReason != "" && t.ExitReason != m.exitReason {
		return false
	}
	if m.strike != "" && !strings.Contains(StrikeText(t.Strike), m.strike) {
		return false
	}
	if m.hasMin || m.hasMax {
		// An open trade has no P&L yet and is bounded as zero.
		var pnl float64
		if t.PnL != nil {
			pnl = *t.PnL
		}
		if m.hasMin && pnl < m.min {
			return false
		}
		if m.hasMax && pnl > m.max {
			return false
		}
	}
	return true
}

func enumActive(v string) bool {
	return v != "" && v != All
}
