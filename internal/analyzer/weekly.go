package analyzer

import (
	"math"
	"time"
)

// WeekEndDay is the weekday every weekly bar is labelled with
const WeekEndDay = time.Friday

// WeeklyRow is one symbol's aggregate over a Friday-ending week plus its
// weekly history features. Features are NaN until enough weeks exist.
type WeeklyRow struct {
	Symbol  string
	WeekEnd time.Time
	Days    int

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64

	PrevOpen  float64
	PrevHigh  float64
	PrevLow   float64
	PrevClose float64

	Prev2Open  float64
	Prev2High  float64
	Prev2Low   float64
	Prev2Close float64

	MinLow5   float64
	MinLow7   float64
	MinLow10  float64
	MaxHigh5  float64
	MaxHigh7  float64
	MaxHigh10 float64
}

// Vol returns the week's volume as a float
func (w *WeeklyRow) Vol() float64 {
	return float64(w.Volume)
}

// WeekEnding returns the Friday closing the week that contains date.
// Saturday and Sunday roll forward into the following week.
func WeekEnding(date time.Time) time.Time {
	d := TradingDate(date)
	offset := (int(WeekEndDay) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// AggregateWeekly buckets one symbol's daily series into Friday-ending weeks.
// A week is kept only when all of its OHLC aggregates are finite.
func AggregateWeekly(s Series) []WeeklyRow {
	var weeks []WeeklyRow

	for i := 0; i < len(s.Bars); {
		end := WeekEnding(s.Bars[i].Time)
		w := WeeklyRow{
			Symbol:  s.Symbol,
			WeekEnd: end,
			Open:    s.Bars[i].Open,
			High:    math.Inf(-1),
			Low:     math.Inf(1),
		}

		j := i
		for ; j < len(s.Bars) && WeekEnding(s.Bars[j].Time).Equal(end); j++ {
			b := s.Bars[j]
			w.High = nanMax(w.High, b.High)
			w.Low = nanMin(w.Low, b.Low)
			w.Close = b.Close
			w.Volume += b.Volume
			w.Days++
		}
		i = j

		if isFinite(w.Open) && isFinite(w.High) && isFinite(w.Low) && isFinite(w.Close) {
			weeks = append(weeks, w)
		}
	}

	deriveWeekly(weeks)
	return weeks
}

// deriveWeekly fills shifted and rolling fields over the emitted weeks
func deriveWeekly(weeks []WeeklyRow) {
	open := column(weeks, func(w WeeklyRow) float64 { return w.Open })
	high := column(weeks, func(w WeeklyRow) float64 { return w.High })
	low := column(weeks, func(w WeeklyRow) float64 { return w.Low })
	closes := column(weeks, func(w WeeklyRow) float64 { return w.Close })

	prevOpen, prev2Open := shift(open, 1), shift(open, 2)
	prevHigh, prev2High := shift(high, 1), shift(high, 2)
	prevLow, prev2Low := shift(low, 1), shift(low, 2)
	prevClose, prev2Close := shift(closes, 1), shift(closes, 2)

	minLow5, minLow7, minLow10 := rollingMin(low, 5), rollingMin(low, 7), rollingMin(low, 10)
	maxHigh5, maxHigh7, maxHigh10 := rollingMax(high, 5), rollingMax(high, 7), rollingMax(high, 10)

	for i := range weeks {
		w := &weeks[i]
		w.PrevOpen, w.Prev2Open = prevOpen[i], prev2Open[i]
		w.PrevHigh, w.Prev2High = prevHigh[i], prev2High[i]
		w.PrevLow, w.Prev2Low = prevLow[i], prev2Low[i]
		w.PrevClose, w.Prev2Close = prevClose[i], prev2Close[i]
		w.MinLow5, w.MinLow7, w.MinLow10 = minLow5[i], minLow7[i], minLow10[i]
		w.MaxHigh5, w.MaxHigh7, w.MaxHigh10 = maxHigh5[i], maxHigh7[i], maxHigh10[i]
	}
}

// nanMax and nanMin propagate NaN so a week with a missing price is dropped
func nanMax(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Max(a, b)
}

func nanMin(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Min(a, b)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
