package strategy

import (
	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// Options tunes rule evaluation
type Options struct {
	// StrictWeekly adds downtrend confirmation to the weekly reversal rules
	StrictWeekly bool
	// WeeklyPriceCeiling caps the close for Weekly Reversal in strict mode
	WeeklyPriceCeiling float64
}

// DefaultOptions returns the canonical (non-strict) rule set
func DefaultOptions() Options {
	return Options{
		StrictWeekly:       false,
		WeeklyPriceCeiling: 5000,
	}
}

// twoWeekDowntrend: both prior weeks closed red and the last close was lower
func twoWeekDowntrend(w *analyzer.WeeklyRow) bool {
	return w.PrevClose < w.PrevOpen &&
		w.Prev2Close < w.Prev2Open &&
		w.PrevClose < w.Prev2Close
}

func weeklyReversal(w *analyzer.WeeklyRow, opts Options) bool {
	ok := w.Close > w.PrevClose*1.005 &&
		w.Low <= w.MinLow7 &&
		w.Vol() > minVolume
	if !ok || !opts.StrictWeekly {
		return ok
	}
	return twoWeekDowntrend(w) && w.Close <= opts.WeeklyPriceCeiling
}

func threeWeekReversal(w *analyzer.WeeklyRow, opts Options) bool {
	ok := w.Close > w.PrevHigh &&
		w.Close > w.Prev2Close
	if !ok || !opts.StrictWeekly {
		return ok
	}
	return w.Close > w.Open*1.01 && twoWeekDowntrend(w)
}

func init() {
	Register(Rule{ID: 11, Name: WeeklyReversal, Polarity: model.Buy,
		Description: "Weekly close 0.5% above last week from a 7-week low"}, nil, weeklyReversal)
	Register(Rule{ID: 13, Name: ThreeWeekReversal, Polarity: model.Buy,
		Description: "Weekly close above last week's high and the close two weeks ago"}, nil, threeWeekReversal)
}
