package summary

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jefrnc/optionsdash/internal/dashboard"
	"github.com/jefrnc/optionsdash/internal/format"
	"github.com/jefrnc/optionsdash/internal/models"
)

// PrintOverview prints the headline cards, detail sections and per-type rows.
func PrintOverview(w io.Writer, ov dashboard.Overview) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, c := range ov.Cards {
		fmt.Fprintf(tw, "%s\t%s%s\t%s\n", c.Label, toneMark(c.Tone), c.Value, c.Subtext)
	}

	for _, s := range ov.Sections {
		fmt.Fprintf(tw, "\n%s\t\t\n", strings.ToUpper(s.Title))
		for _, l := range s.Lines {
			fmt.Fprintf(tw, "  %s\t%s\t\n", l.Label, l.Value)
		}
	}

	if len(ov.ByType) > 0 {
		fmt.Fprintf(tw, "\nBY OPTION TYPE\t\t\n")
		for _, r := range ov.ByType {
			fmt.Fprintf(tw, "  %s\t%s%s\t%s\n", r.Label, toneMark(r.Tone), r.PnL, r.Summary)
		}
	}

	tw.Flush()
}

// PrintMetrics prints the compact metrics panel.
func PrintMetrics(w io.Writer, cards []dashboard.Card) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "METRIC\tVALUE\tNOTE\n")
	fmt.Fprintf(tw, "──────\t─────\t────\n")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s%s\t%s\n", c.Label, toneMark(c.Tone), c.Value, c.Subtext)
	}

	tw.Flush()
}

// PrintStrategy prints the strategy status block.
func PrintStrategy(w io.Writer, p dashboard.StrategyPanel) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Strategy Status\t%s\n", p.Mode)
	fmt.Fprintf(tw, "Wave Lock\t%s\n", p.WaveLock)
	fmt.Fprintf(tw, "Last Trade Side\t%s\n", p.LastTradeSide)
	fmt.Fprintf(tw, "ADX Min\t%s\n", p.ADXMin)
	fmt.Fprintf(tw, "Wave Reset\t%s\n", p.WaveReset)
	fmt.Fprintf(tw, "Persist state\t%s\n", p.PersistState)

	tw.Flush()
}

// PrintTrades prints the filtered trade table.
func PrintTrades(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "All Trades (%d of %d)\n", v.Shown, v.Total)
	if filters := describeFilters(v); filters != "" {
		fmt.Fprintf(w, "Filters: %s\n", filters)
	}
	fmt.Fprintln(w)

	if len(v.Rows) == 0 {
		fmt.Fprintln(w, v.Empty)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "TIME\tTYPE\tSTRIKE\tENTRY\tEXIT\tQTY\tP&L\tREASON\n")
	fmt.Fprintf(tw, "────\t────\t──────\t─────\t────\t───\t───\t──────\n")

	for _, r := range v.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s%s\t%s\n",
			r.EntryTime,
			r.OptionType,
			r.Strike,
			r.EntryPrice,
			r.ExitPrice,
			r.Qty,
			toneMark(r.Tone),
			r.PnL,
			r.ExitReason,
		)
	}

	tw.Flush()
}

// ExportCSV writes the filtered trades as CSV with raw numeric values.
func ExportCSV(w io.Writer, trades []models.TradeRecord) error {
	cw := csv.NewWriter(w)

	// Header
	if err := cw.Write([]string{
		"entry_time", "exit_time", "option_type", "strike", "entry_price",
		"exit_price", "qty", "pnl", "exit_reason",
	}); err != nil {
		return err
	}

	for _, t := range trades {
		if err := cw.Write([]string{
			t.EntryTime,
			optString(t.ExitTime),
			string(t.OptionType),
			fmt.Sprint(t.Strike),
			fmt.Sprintf("%.2f", t.EntryPrice),
			optFloat(t.ExitPrice),
			fmt.Sprintf("%d", t.Qty),
			optFloat(t.PnL),
			t.ExitReason,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func describeFilters(v dashboard.View) string {
	p := v.Predicates
	var parts []string
	if p.OptionType != "" && p.OptionType != "all" {
		parts = append(parts, "type="+p.OptionType)
	}
	if p.ExitReason != "" && p.ExitReason != "all" {
		parts = append(parts, "reason="+p.ExitReason)
	}
	if p.StrikeSearch != "" {
		parts = append(parts, "strike~"+p.StrikeSearch)
	}
	if p.MinPnL != "" {
		parts = append(parts, "pnl>="+p.MinPnL)
	}
	if p.MaxPnL != "" {
		parts = append(parts, "pnl<="+p.MaxPnL)
	}
	return strings.Join(parts, " ")
}

func toneMark(t format.Tone) string {
	switch t {
	case format.Positive:
		return "▲ "
	case format.Negative:
		return "▼ "
	default:
		return ""
	}
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
