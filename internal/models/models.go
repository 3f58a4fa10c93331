package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OptionType is the side designator of an options trade.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// TradeRecord represents a single closed trade as delivered by the backend.
// Records are read-only once decoded; a new fetch replaces the whole set.
type TradeRecord struct {
	EntryTime  string     `json:"entry_time"`
	ExitTime   *string    `json:"exit_time,omitempty"`
	OptionType OptionType `json:"option_type"` // "CE" = Call, "PE" = Put
	Strike     float64    `json:"strike"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  *float64   `json:"exit_price,omitempty"` // nil while open
	Qty        int        `json:"qty"`
	PnL        *float64   `json:"pnl"` // nil for open trades
	ExitReason string     `json:"exit_reason,omitempty"`
}

// TypeStats is the per-option-type rollup inside trades_by_type.
type TypeStats struct {
	Count   int     `json:"count"`
	WinRate float64 `json:"win_rate"`
	PnL     float64 `json:"pnl"`
}

// AnalyticsSnapshot is the aggregate payload returned by /api/analytics.
// All aggregate numbers are computed upstream and displayed as-is.
type AnalyticsSnapshot struct {
	TotalPnL      float64       `json:"total_pnl"`
	TotalTrades   int           `json:"total_trades"`
	WinRate       float64       `json:"win_rate"`
	ProfitFactor  float64       `json:"profit_factor"`
	AvgTradePnL   float64       `json:"avg_trade_pnl"`
	WinningTrades int           `json:"winning_trades"`
	LosingTrades  int           `json:"losing_trades"`
	MaxProfit     float64       `json:"max_profit"`
	MaxLoss       float64       `json:"max_loss"`
	AvgWin        float64       `json:"avg_win"`
	AvgLoss       float64       `json:"avg_loss"`
	TradesByType  TypeBreakdown `json:"trades_by_type"`
	Trades        []TradeRecord `json:"trades"`

	// Risk metrics shown by the compact metrics view. Older backends omit them.
	SharpeRatio          *float64 `json:"sharpe_ratio,omitempty"`
	MaxDrawdown          *float64 `json:"max_drawdown,omitempty"`
	MaxConsecutiveWins   *int     `json:"max_consecutive_wins,omitempty"`
	MaxConsecutiveLosses *int     `json:"max_consecutive_losses,omitempty"`
	AvgTradesPerDay      *float64 `json:"avg_trades_per_day,omitempty"`
	TradingDays          *int     `json:"trading_days,omitempty"`
}

// Validate reports inconsistencies in an upstream payload. They are
// warnings: the snapshot is still displayed as delivered.
func (s *AnalyticsSnapshot) Validate() []string {
	var warnings []string

	if s.WinningTrades+s.LosingTrades > s.TotalTrades {
		warnings = append(warnings, fmt.Sprintf(
			"winning_trades (%d) + losing_trades (%d) exceeds total_trades (%d)",
			s.WinningTrades, s.LosingTrades, s.TotalTrades))
	}

	for i, t := range s.Trades {
		if t.OptionType != Call && t.OptionType != Put {
			warnings = append(warnings, fmt.Sprintf("trade %d: unknown option_type %q", i, t.OptionType))
		}
		if t.Strike <= 0 {
			warnings = append(warnings, fmt.Sprintf("trade %d: non-positive strike %v", i, t.Strike))
		}
	}

	return warnings
}

// GrossProfit is avg_win scaled back up by the number of winners.
func (s *AnalyticsSnapshot) GrossProfit() decimal.Decimal {
	return decimal.NewFromFloat(s.AvgWin).Mul(decimal.NewFromInt(int64(s.WinningTrades)))
}

// GrossLoss is avg_loss scaled back up by the number of losers.
func (s *AnalyticsSnapshot) GrossLoss() decimal.Decimal {
	return decimal.NewFromFloat(s.AvgLoss).Mul(decimal.NewFromInt(int64(s.LosingTrades)))
}

// StrategyStatus is the live strategy state shown next to the analytics.
type StrategyStatus struct {
	StrategyMode string       `json:"strategy_mode"`
	AgentState   *AgentState  `json:"agent_state,omitempty"`
	AgentParams  *AgentParams `json:"agent_params,omitempty"`
}

// AgentState holds the agent's runtime flags.
type AgentState struct {
	WaveLock      *bool  `json:"wave_lock,omitempty"`
	LastTradeSide string `json:"last_trade_side,omitempty"`
}

// AgentParams holds the agent's tuning parameters.
type AgentParams struct {
	ADXMin            *float64 `json:"adx_min,omitempty"`
	WaveResetMACDAbs  *float64 `json:"wave_reset_macd_abs,omitempty"`
	PersistAgentState *bool    `json:"persist_agent_state,omitempty"`
}
