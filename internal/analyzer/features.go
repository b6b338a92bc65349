package analyzer

import "swinglab/pkg/model"

// Lookback lengths in trading days. A "week" is five sessions.
const (
	WindowWeek      = 5
	WindowTwoWeeks  = 10
	WindowThreeWeek = 15
	WindowFourWeeks = 20
	WindowSixWeeks  = 30
	WindowTenWeeks  = 50
	WindowQuarter   = 90
)

// DailyRow is a bar together with its causal history features.
// Every feature is NaN until the symbol has enough history for it.
type DailyRow struct {
	model.Bar

	// Previous session
	PrevOpen   float64
	PrevHigh   float64
	PrevLow    float64
	PrevClose  float64
	PrevVolume float64

	// Volume two sessions back
	Volume2Back float64

	AvgVol5  float64
	AvgVol10 float64
	AvgVol90 float64
	MaxVol3  float64

	MinLow5  float64
	MinLow10 float64
	MinLow20 float64
	MinLow30 float64

	MaxHigh5  float64
	MaxHigh10 float64
	MaxHigh15 float64
	MaxHigh30 float64
	MaxHigh50 float64

	// Extremes as they stood one session earlier
	PrevMinLow10  float64
	PrevMinLow30  float64
	PrevMaxHigh10 float64
	PrevMaxHigh30 float64
}

// Vol returns today's volume as a float for comparisons against averages
func (r *DailyRow) Vol() float64 {
	return float64(r.Volume)
}

// DeriveDaily computes the daily feature rows for one symbol's series.
// Only bars of that series are read, and row i only sees bars 0..i.
func DeriveDaily(s Series) []DailyRow {
	bars := s.Bars
	n := len(bars)
	if n == 0 {
		return nil
	}

	open := column(bars, func(b model.Bar) float64 { return b.Open })
	high := column(bars, func(b model.Bar) float64 { return b.High })
	low := column(bars, func(b model.Bar) float64 { return b.Low })
	closes := column(bars, func(b model.Bar) float64 { return b.Close })
	vol := column(bars, func(b model.Bar) float64 { return float64(b.Volume) })

	prevOpen := shift(open, 1)
	prevHigh := shift(high, 1)
	prevLow := shift(low, 1)
	prevClose := shift(closes, 1)
	prevVol := shift(vol, 1)
	vol2 := shift(vol, 2)

	avgVol5 := rollingMean(vol, WindowWeek)
	avgVol10 := rollingMean(vol, WindowTwoWeeks)
	avgVol90 := rollingMean(vol, WindowQuarter)
	maxVol3 := rollingMax(vol, 3)

	minLow5 := rollingMin(low, WindowWeek)
	minLow10 := rollingMin(low, WindowTwoWeeks)
	minLow20 := rollingMin(low, WindowFourWeeks)
	minLow30 := rollingMin(low, WindowSixWeeks)

	maxHigh5 := rollingMax(high, WindowWeek)
	maxHigh10 := rollingMax(high, WindowTwoWeeks)
	maxHigh15 := rollingMax(high, WindowThreeWeek)
	maxHigh30 := rollingMax(high, WindowSixWeeks)
	maxHigh50 := rollingMax(high, WindowTenWeeks)

	prevMinLow10 := shift(minLow10, 1)
	prevMinLow30 := shift(minLow30, 1)
	prevMaxHigh10 := shift(maxHigh10, 1)
	prevMaxHigh30 := shift(maxHigh30, 1)

	rows := make([]DailyRow, n)
	for i, b := range bars {
		rows[i] = DailyRow{
			Bar:           b,
			PrevOpen:      prevOpen[i],
			PrevHigh:      prevHigh[i],
			PrevLow:       prevLow[i],
			PrevClose:     prevClose[i],
			PrevVolume:    prevVol[i],
			Volume2Back:   vol2[i],
			AvgVol5:       avgVol5[i],
			AvgVol10:      avgVol10[i],
			AvgVol90:      avgVol90[i],
			MaxVol3:       maxVol3[i],
			MinLow5:       minLow5[i],
			MinLow10:      minLow10[i],
			MinLow20:      minLow20[i],
			MinLow30:      minLow30[i],
			MaxHigh5:      maxHigh5[i],
			MaxHigh10:     maxHigh10[i],
			MaxHigh15:     maxHigh15[i],
			MaxHigh30:     maxHigh30[i],
			MaxHigh50:     maxHigh50[i],
			PrevMinLow10:  prevMinLow10[i],
			PrevMinLow30:  prevMinLow30[i],
			PrevMaxHigh10: prevMaxHigh10[i],
			PrevMaxHigh30: prevMaxHigh30[i],
		}
	}
	return rows
}
