package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"swinglab/internal/strategy"
	"swinglab/pkg/model"
)

// Document is the JSON shape of a rendered scan
type Document struct {
	RunID   string         `json:"run_id"`
	AsOf    string         `json:"as_of"`
	View    View           `json:"view"`
	Summary Summary        `json:"summary"`
	Signals []model.Signal `json:"signals"`
}

// WriteSummary prints the KPI line
func WriteSummary(w io.Writer, sum Summary) {
	fmt.Fprintf(w, "Stocks Scanned: %d | Bullish Signals: %d | Bearish Signals: %d | Tier: %s\n",
		sum.Scanned, sum.Bullish, sum.Bearish, sum.Tier)
}

// WriteTable renders signals as a table, or a one-line notice when empty
func WriteTable(w io.Writer, v View, signals []model.Signal) error {
	if len(signals) == 0 {
		fmt.Fprintln(w, emptyNotice(v))
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Ticker", "Date", "Price", "Stop Loss", "Pattern Detected", "TF", "Volume"}),
	)
	for _, s := range signals {
		if err := table.Append([]string{
			s.Symbol,
			s.Date.Format("2006-01-02"),
			fmt.Sprintf("₹%.2f", s.Close),
			fmt.Sprintf("₹%.2f", s.StopLoss),
			s.Name,
			string(s.Timeframe),
			fmt.Sprintf("%d", s.Volume),
		}); err != nil {
			return fmt.Errorf("appending %s: %w", s.Symbol, err)
		}
	}
	return table.Render()
}

// WriteJSON encodes the scan as an indented JSON document
func WriteJSON(w io.Writer, runID string, asOf time.Time, v View, sum Summary, signals []model.Signal) error {
	if signals == nil {
		signals = []model.Signal{}
	}
	doc := Document{
		RunID:   runID,
		AsOf:    asOf.Format("2006-01-02"),
		View:    v,
		Summary: sum,
		Signals: signals,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// WriteCatalog lists every registered rule
func WriteCatalog(w io.Writer, rules []strategy.Rule) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Signal", "Polarity", "TF", "Condition"}),
	)
	for _, r := range rules {
		if err := table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			r.Name,
			string(r.Polarity),
			string(r.Timeframe),
			r.Description,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func emptyNotice(v View) string {
	switch v {
	case ViewBullish:
		return "No bullish signals found."
	case ViewBearish:
		return "No bearish signals found."
	case ViewElite:
		return "No weekly reversals detected. Market is consolidating."
	default:
		return "No signals found."
	}
}
