package strategy

import (
	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// Stop-loss multipliers applied to the signal bar
const (
	DailyBuyStop  = 0.995
	WeeklyBuyStop = 0.99
	SellStop      = 1.005
)

// StopLoss returns the protective stop for a signal bar.
// Buy signals stop below the low, everything else above the high.
func StopLoss(p model.Polarity, tf model.Timeframe, low, high float64) float64 {
	if p != model.Buy {
		return high * SellStop
	}
	if tf == model.Weekly {
		return low * WeeklyBuyStop
	}
	return low * DailyBuyStop
}

// DailySignal projects a labelled daily row onto the output schema
func DailySignal(r *analyzer.DailyRow, rule Rule) model.Signal {
	return model.Signal{
		Symbol:    r.Symbol,
		Close:     r.Close,
		StopLoss:  StopLoss(rule.Polarity, model.Daily, r.Low, r.High),
		Name:      rule.Name,
		Volume:    r.Volume,
		Date:      r.Time,
		RuleID:    rule.ID,
		Timeframe: model.Daily,
		Polarity:  rule.Polarity,
	}
}

// WeeklySignal projects a labelled week onto the output schema
func WeeklySignal(w *analyzer.WeeklyRow, rule Rule) model.Signal {
	return model.Signal{
		Symbol:    w.Symbol,
		Close:     w.Close,
		StopLoss:  StopLoss(rule.Polarity, model.Weekly, w.Low, w.High),
		Name:      rule.Name,
		Volume:    w.Volume,
		Date:      w.WeekEnd,
		RuleID:    rule.ID,
		Timeframe: model.Weekly,
		Polarity:  rule.Polarity,
	}
}
