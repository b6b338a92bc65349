// Package report turns scan results into the views the CLI prints:
// min-volume filtering, bullish / bearish / elite selections and KPIs.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"swinglab/internal/analyzer"
	"swinglab/internal/strategy"
	"swinglab/pkg/model"
)

// View selects which signals are shown
type View string

const (
	ViewAll     View = "all"
	ViewBullish View = "bullish"
	ViewBearish View = "bearish"
	ViewElite   View = "elite"
)

// ErrLocked is returned when the elite view is requested without the elite tier
var ErrLocked = errors.New("elite view is locked: supply a valid elite token")

// eliteNames are the high-conviction weekly setups
var eliteNames = map[string]bool{
	strategy.WeeklyReversal:    true,
	strategy.ThreeWeekReversal: true,
}

// ParseView validates a view name
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewAll, ViewBullish, ViewBearish, ViewElite:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view: %s", s)
	}
}

// MinVolume keeps signals whose bar volume is strictly above floor
func MinVolume(signals []model.Signal, floor int64) []model.Signal {
	out := make([]model.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Volume > floor {
			out = append(out, s)
		}
	}
	return out
}

// isBullish and isBearish match on the displayed name, so Volume Spike
// belongs to neither side.
func isBullish(s model.Signal) bool { return strings.Contains(s.Name, "Buy") }
func isBearish(s model.Signal) bool { return strings.Contains(s.Name, "Sell") }

// Select applies a view. The elite view requires elite to be true.
func Select(signals []model.Signal, v View, elite bool) ([]model.Signal, error) {
	var keep func(model.Signal) bool
	switch v {
	case ViewAll:
		return signals, nil
	case ViewBullish:
		keep = isBullish
	case ViewBearish:
		keep = isBearish
	case ViewElite:
		if !elite {
			return nil, ErrLocked
		}
		keep = func(s model.Signal) bool { return eliteNames[s.Name] }
	default:
		return nil, fmt.Errorf("unknown view: %s", v)
	}

	out := make([]model.Signal, 0)
	for _, s := range signals {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Summary holds the headline counts shown above every view
type Summary struct {
	Scanned int    `json:"stocks_scanned"`
	Bullish int    `json:"bullish_signals"`
	Bearish int    `json:"bearish_signals"`
	Tier    string `json:"tier"`
}

// Summarize counts bullish and bearish signals after filtering
func Summarize(scanned int, signals []model.Signal, elite bool) Summary {
	sum := Summary{Scanned: scanned, Tier: "FREE"}
	if elite {
		sum.Tier = "ELITE"
	}
	for _, s := range signals {
		if isBullish(s) {
			sum.Bullish++
		}
		if isBearish(s) {
			sum.Bearish++
		}
	}
	return sum
}

// SessionNotes returns trading-day reminders for the given day
func SessionNotes(day time.Time) []string {
	switch day.Weekday() {
	case time.Monday:
		return []string{"Monday: market is stabilizing, wait 30 minutes before entry and watch Monday open against Friday close."}
	case time.Thursday:
		return []string{"Expiry day: watch for a break of the last two days' high or low."}
	default:
		return nil
	}
}

// Latest keeps the signals of the most recent session: daily signals dated
// asOf and weekly signals for the week containing asOf
func Latest(signals []model.Signal, asOf time.Time) []model.Signal {
	day := analyzer.TradingDate(asOf)
	week := analyzer.WeekEnding(day)

	out := make([]model.Signal, 0)
	for _, s := range signals {
		switch s.Timeframe {
		case model.Daily:
			if s.Date.Equal(day) {
				out = append(out, s)
			}
		case model.Weekly:
			if s.Date.Equal(week) {
				out = append(out, s)
			}
		}
	}
	return out
}
