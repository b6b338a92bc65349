package strategy

import (
	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// Signal names as shown to users
const (
	UTurnBuy          = "U-Turn (Buy)"
	UTurnSell         = "U-Turn (Sell)"
	JumpStartBuy      = "Jump Start (Buy)"
	JumpStartSell     = "Jump Start (Sell)"
	FullStopBuy       = "Full Stop (Buy)"
	FullStopSell      = "Full Stop (Sell)"
	TurnAroundBuy     = "Turn Around (Buy)"
	TurnAroundSell    = "Turn Around (Sell)"
	ReverseBuy        = "Reverse (Buy)"
	GapBuy            = "Gap (Buy)"
	VolumeSpike       = "Volume Spike"
	WeeklyReversal    = "Weekly Reversal (Buy)"
	ThreeWeekReversal = "3-Week Reversal (Buy)"
)

// Liquidity floor shared by most rules; compared strictly
const minVolume = 500000

// All comparisons are written positively: any NaN operand makes them false,
// which is how missing history suppresses a signal.

// uTurnBuy: gap down below yesterday's low that closes strong at a 4-week low
func uTurnBuy(r *analyzer.DailyRow) bool {
	return r.Close > r.PrevClose*1.0015 &&
		r.Open < r.PrevLow*0.9975 &&
		r.Close > r.Open &&
		r.Low <= r.MinLow20 &&
		r.Vol() > r.PrevVolume*1.20
}

func uTurnSell(r *analyzer.DailyRow) bool {
	return r.Close < r.PrevClose*0.9985 &&
		r.Open > r.PrevHigh*1.0015 &&
		r.Close < r.Open &&
		r.High >= r.MaxHigh15 &&
		r.Close > 2 &&
		r.Vol() > r.PrevVolume*1.20 &&
		r.Vol() > minVolume
}

// jumpStartBuy: gap above a bar that marked a 2-week low, gap unfilled
func jumpStartBuy(r *analyzer.DailyRow) bool {
	return r.Open > r.PrevHigh*1.0010 &&
		r.Close > r.Open &&
		r.PrevLow <= r.PrevMinLow10 &&
		r.Low > r.PrevHigh &&
		r.High < r.MaxHigh50*0.97 &&
		r.Vol() > r.PrevVolume &&
		r.Vol() > minVolume
}

func jumpStartSell(r *analyzer.DailyRow) bool {
	return r.Open < r.PrevLow*0.9990 &&
		r.Close < r.Open &&
		r.PrevHigh >= r.PrevMaxHigh10 &&
		r.High < r.PrevLow &&
		r.AvgVol10 > 100000 &&
		r.Close > 5 &&
		r.Vol() > r.PrevVolume
}

// fullStopBuy: gap up above yesterday's close after a 6-week low
func fullStopBuy(r *analyzer.DailyRow) bool {
	return r.Low > r.PrevClose*1.0010 &&
		r.PrevHigh > r.Low &&
		r.Close > r.Open &&
		r.Close > r.PrevHigh &&
		r.PrevLow <= r.PrevMinLow30 &&
		r.Vol() > r.PrevVolume &&
		r.Vol() > minVolume
}

func fullStopSell(r *analyzer.DailyRow) bool {
	return r.High < r.PrevClose*0.9990 &&
		r.PrevLow < r.High &&
		r.Close < r.Open &&
		r.PrevHigh >= r.PrevMaxHigh30 &&
		r.Vol() > r.PrevVolume &&
		r.Vol() > minVolume
}

func turnAroundBuy(r *analyzer.DailyRow) bool {
	return r.Open < r.PrevLow &&
		r.Close > r.PrevClose &&
		r.Low == r.MinLow5 &&
		r.Vol() > r.AvgVol5
}

func turnAroundSell(r *analyzer.DailyRow) bool {
	return r.High == r.MaxHigh5 &&
		r.Open > r.PrevHigh &&
		r.Close < r.PrevClose &&
		r.Vol() > r.AvgVol5
}

func reverseBuy(r *analyzer.DailyRow) bool {
	return r.Close > r.PrevClose*1.002 &&
		r.Low == r.MinLow5 &&
		r.Low < r.PrevLow*0.9925 &&
		r.Close > r.Open*1.002 &&
		r.Vol() > r.AvgVol5*1.20 &&
		r.Vol() > minVolume &&
		r.Close > 0.60
}

func gapBuy(r *analyzer.DailyRow) bool {
	return r.Low > r.PrevHigh*1.01 &&
		r.Close > r.Open &&
		r.Vol() == r.MaxVol3 &&
		r.AvgVol10 > 200000 &&
		r.Close > 40
}

// volumeSpike: yesterday's volume burst fading today
func volumeSpike(r *analyzer.DailyRow) bool {
	return r.PrevVolume > r.Volume2Back*4.0 &&
		r.Vol() < r.PrevVolume*0.75 &&
		r.AvgVol90 > 200000 &&
		r.Close >= 5 && r.Close <= 250
}

func init() {
	Register(Rule{ID: 1, Name: UTurnBuy, Polarity: model.Buy,
		Description: "Gap below prior low reverses to close up at a 4-week low on 1.2x volume"}, uTurnBuy, nil)
	Register(Rule{ID: 2, Name: UTurnSell, Polarity: model.Sell,
		Description: "Gap above prior high reverses to close down at a 3-week high on 1.2x volume"}, uTurnSell, nil)
	Register(Rule{ID: 3, Name: JumpStartBuy, Polarity: model.Buy,
		Description: "Unfilled gap up after a 2-week low, below 97% of the 10-week high"}, jumpStartBuy, nil)
	Register(Rule{ID: 4, Name: JumpStartSell, Polarity: model.Sell,
		Description: "Unfilled gap down after a 2-week high"}, jumpStartSell, nil)
	Register(Rule{ID: 5, Name: FullStopBuy, Polarity: model.Buy,
		Description: "Gap up above prior close after a 6-week low, closing above prior high"}, fullStopBuy, nil)
	Register(Rule{ID: 6, Name: FullStopSell, Polarity: model.Sell,
		Description: "Gap down below prior close after a 6-week high"}, fullStopSell, nil)
	Register(Rule{ID: 7, Name: TurnAroundBuy, Polarity: model.Buy,
		Description: "Open below prior low, close above prior close at a 1-week low"}, turnAroundBuy, nil)
	Register(Rule{ID: 8, Name: TurnAroundSell, Polarity: model.Sell,
		Description: "Open above prior high, close below prior close at a 1-week high"}, turnAroundSell, nil)
	Register(Rule{ID: 9, Name: ReverseBuy, Polarity: model.Buy,
		Description: "Undercut of prior low to a 1-week low that closes firmly up"}, reverseBuy, nil)
	Register(Rule{ID: 15, Name: GapBuy, Polarity: model.Buy,
		Description: "Low 1% above prior high on the highest volume of 3 days"}, gapBuy, nil)
	Register(Rule{ID: 18, Name: VolumeSpike, Polarity: model.Sell,
		Description: "4x volume burst yesterday fading below 75% today"}, volumeSpike, nil)
}
