package dashboard

import (
	"fmt"

	"github.com/jefrnc/optionsdash/internal/format"
	"github.com/jefrnc/optionsdash/internal/models"
)

// Card is a labelled figure with an optional caption.
type Card struct {
	Label   string      `json:"label"`
	Value   string      `json:"value"`
	Subtext string      `json:"subtext,omitempty"`
	Tone    format.Tone `json:"tone"`
}

// Section groups cards under a heading.
type Section struct {
	Title string `json:"title"`
	Lines []Card `json:"lines"`
}

// TypeRow is one option type in the per-type breakdown.
type TypeRow struct {
	Label   string      `json:"label"`
	Count   int         `json:"count"`
	Summary string      `json:"summary"`
	PnL     string      `json:"pnl"`
	Tone    format.Tone `json:"tone"`
}

// Overview is the headline page: four stat cards, two detail sections and
// the per-type breakdown.
type Overview struct {
	Cards    []Card    `json:"cards"`
	Sections []Section `json:"sections"`
	ByType   []TypeRow `json:"byType"`
}

// BuildOverview formats the snapshot's aggregates. Win rate uses two
// decimals here and one decimal in the per-type rows.
func BuildOverview(s *models.AnalyticsSnapshot) Overview {
	cards := []Card{
		{
			Label:   "Total P&L",
			Value:   format.Currency(s.TotalPnL),
			Subtext: fmt.Sprintf("%d trades", s.TotalTrades),
			Tone:    format.ClassifyAtLeast(s.TotalPnL, 0),
		},
		{
			Label:   "Win Rate",
			Value:   format.Percent(s.WinRate, 2),
			Subtext: fmt.Sprintf("%d wins, %d losses", s.WinningTrades, s.LosingTrades),
			Tone:    format.ClassifyAtLeast(s.WinRate, 50),
		},
		{
			Label:   "Profit Factor",
			Value:   format.Ratio(s.ProfitFactor, 2),
			Subtext: "Gross Profit / Gross Loss",
		},
		{
			Label: "Avg P&L Per Trade",
			Value: format.Currency(s.AvgTradePnL),
			Tone:  format.ClassifyAtLeast(s.AvgTradePnL, 0),
		},
	}

	details := Section{
		Title: "Trade Details",
		Lines: []Card{
			{Label: "Best Trade", Value: format.SignedCurrency(s.MaxProfit), Tone: format.Positive},
			{Label: "Worst Trade", Value: format.Currency(s.MaxLoss), Tone: format.Negative},
			{Label: "Avg Win", Value: format.Currency(s.AvgWin)},
			{Label: "Avg Loss", Value: format.Currency(s.AvgLoss)},
		},
	}

	performance := Section{
		Title: "Performance",
		Lines: []Card{
			{Label: "Winning Trades", Value: fmt.Sprint(s.WinningTrades), Tone: format.Positive},
			{Label: "Losing Trades", Value: fmt.Sprint(s.LosingTrades), Tone: format.Negative},
			{Label: "Total Gross Profit", Value: format.DecimalCurrency(s.GrossProfit())},
			{Label: "Total Gross Loss", Value: format.DecimalCurrency(s.GrossLoss())},
		},
	}

	return Overview{
		Cards:    cards,
		Sections: []Section{details, performance},
		ByType:   BuildTypeRows(s.TradesByType),
	}
}

// BuildTypeRows lists trades_by_type in payload order.
func BuildTypeRows(b models.TypeBreakdown) []TypeRow {
	rows := make([]TypeRow, 0, len(b))
	for _, e := range b {
		rows = append(rows, TypeRow{
			Label:   e.Label,
			Count:   e.Stats.Count,
			Summary: fmt.Sprintf("%d trades, %s win", e.Stats.Count, format.Percent(e.Stats.WinRate, 1)),
			PnL:     format.SignedCurrency(e.Stats.PnL),
			Tone:    format.ClassifyAtLeast(e.Stats.PnL, 0),
		})
	}
	return rows
}

// BuildMetrics returns the compact ten-metric panel.
func BuildMetrics(s *models.AnalyticsSnapshot) []Card {
	sharpeTone := format.Neutral
	if s.SharpeRatio != nil && *s.SharpeRatio >= 1 {
		sharpeTone = format.Positive
	}

	return []Card{
		{Label: "Total PnL", Value: format.Currency(s.TotalPnL), Tone: format.ClassifyAtLeast(s.TotalPnL, 0)},
		{Label: "Win Rate", Value: format.Percent(s.WinRate, 1), Tone: format.ClassifyAtLeast(s.WinRate, 50)},
		{
			Label:   "Profit Factor",
			Value:   format.Ratio(s.ProfitFactor, 2),
			Subtext: "Total wins / Total losses",
			Tone:    format.ClassifyAtLeast(s.ProfitFactor, 1.5),
		},
		{Label: "Sharpe Ratio", Value: format.OptRatio(s.SharpeRatio, 2), Subtext: "Risk-adjusted returns", Tone: sharpeTone},
		{Label: "Max Drawdown", Value: format.OptMagnitude(s.MaxDrawdown), Subtext: "Peak-to-trough decline", Tone: format.Negative},
		{Label: "Avg Trade PnL", Value: format.Currency(s.AvgTradePnL), Tone: format.ClassifyAtLeast(s.AvgTradePnL, 0)},
		{Label: "Max Consecutive Wins", Value: format.Int(s.MaxConsecutiveWins), Tone: format.Positive},
		{Label: "Max Consecutive Losses", Value: format.Int(s.MaxConsecutiveLosses), Tone: format.Negative},
		{Label: "Avg Trades/Day", Value: format.OptRatio(s.AvgTradesPerDay, 1)},
		{Label: "Trading Days", Value: format.Int(s.TradingDays)},
	}
}

// StrategyPanel is the strategy status block.
type StrategyPanel struct {
	Mode          string `json:"mode"`
	WaveLock      string `json:"waveLock"`
	Locked        bool   `json:"locked"`
	LastTradeSide string `json:"lastTradeSide"`
	ADXMin        string `json:"adxMin"`
	WaveReset     string `json:"waveReset"`
	PersistState  string `json:"persistState"`
}

// BuildStrategyPanel formats a status; nil or partial input yields placeholders.
func BuildStrategyPanel(st *models.StrategyStatus) StrategyPanel {
	p := StrategyPanel{
		Mode:          format.Placeholder,
		WaveLock:      format.Placeholder,
		LastTradeSide: format.Placeholder,
		ADXMin:        format.Placeholder,
		WaveReset:     format.Placeholder,
		PersistState:  format.Placeholder,
	}
	if st == nil {
		return p
	}

	p.Mode = format.Text(st.StrategyMode)

	if a := st.AgentState; a != nil {
		p.WaveLock = format.Flag(a.WaveLock, "ON", "OFF")
		p.Locked = a.WaveLock != nil && *a.WaveLock
		p.LastTradeSide = format.Text(a.LastTradeSide)
	}

	if ap := st.AgentParams; ap != nil {
		p.ADXMin = format.OptRatio(ap.ADXMin, 2)
		if ap.WaveResetMACDAbs != nil {
			if v := format.Ratio(*ap.WaveResetMACDAbs, 2); v != format.Placeholder {
				p.WaveReset = "abs(MACD) < " + v
			}
		}
		p.PersistState = format.Flag(ap.PersistAgentState, "YES", "NO")
	}

	return p
}
