package dashboard

import (
	"strconv"

	"github.com/jefrnc/optionsdash/internal/filter"
	"github.com/jefrnc/optionsdash/internal/format"
	"github.com/jefrnc/optionsdash/internal/models"
)

// NoMatches is shown in place of an empty trade table.
const NoMatches = "No trades match the selected filters"

// TradeRow is one trade formatted for the table.
type TradeRow struct {
	EntryTime  string      `json:"entryTime"`
	ExitTime   string      `json:"exitTime"`
	OptionType string      `json:"optionType"`
	Strike     string      `json:"strike"`
	EntryPrice string      `json:"entryPrice"`
	ExitPrice  string      `json:"exitPrice"`
	Qty        string      `json:"qty"`
	PnL        string      `json:"pnl"`
	ExitReason string      `json:"exitReason"`
	Tone       format.Tone `json:"tone"`
}

// View is the trade table derived from a trade base and a predicate set.
type View struct {
	Predicates  filter.Predicates    `json:"predicates"`
	Total       int                  `json:"total"`
	Shown       int                  `json:"shown"`
	Trades      []models.TradeRecord `json:"-"`
	Rows        []TradeRow           `json:"rows"`
	ExitReasons []string             `json:"exitReasons"`
	Empty       string               `json:"emptyMessage,omitempty"`
}

// Derive recomputes the trade table. It depends only on its two inputs,
// so any change to either is handled by calling it again.
func Derive(trades []models.TradeRecord, p filter.Predicates) View {
	filtered := filter.Apply(trades, p)

	rows := make([]TradeRow, 0, len(filtered))
	for _, t := range filtered {
		rows = append(rows, NewTradeRow(t))
	}

	reasons := filter.ExitReasons(trades)
	if reasons == nil {
		reasons = []string{}
	}

	v := View{
		Predicates:  p,
		Total:       len(trades),
		Shown:       len(filtered),
		Trades:      filtered,
		Rows:        rows,
		ExitReasons: reasons,
	}
	if len(filtered) == 0 {
		v.Empty = NoMatches
	}
	return v
}

// NewTradeRow formats a single trade.
func NewTradeRow(t models.TradeRecord) TradeRow {
	exitPrice := format.Placeholder
	if t.ExitPrice != nil {
		exitPrice = format.Currency(*t.ExitPrice)
	}

	return TradeRow{
		EntryTime:  format.Timestamp(t.EntryTime),
		ExitTime:   format.OptTimestamp(t.ExitTime),
		OptionType: format.Text(string(t.OptionType)),
		Strike:     filter.StrikeText(t.Strike),
		EntryPrice: format.Currency(t.EntryPrice),
		ExitPrice:  exitPrice,
		Qty:        strconv.Itoa(t.Qty),
		PnL:        format.PnL(t.PnL),
		ExitReason: format.Text(t.ExitReason),
		Tone:       format.ClassifyPtr(t.PnL),
	}
}
