package strategy

import (
	"math"
	"strings"
	"testing"

	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// nanRow returns a daily row with every price feature undefined
func nanRow() analyzer.DailyRow {
	n := math.NaN()
	return analyzer.DailyRow{
		Bar:      model.Bar{Symbol: "T", Open: n, High: n, Low: n, Close: n},
		PrevOpen: n, PrevHigh: n, PrevLow: n, PrevClose: n, PrevVolume: n,
		Volume2Back: n,
		AvgVol5:     n, AvgVol10: n, AvgVol90: n, MaxVol3: n,
		MinLow5: n, MinLow10: n, MinLow20: n, MinLow30: n,
		MaxHigh5: n, MaxHigh10: n, MaxHigh15: n, MaxHigh30: n, MaxHigh50: n,
		PrevMinLow10: n, PrevMinLow30: n, PrevMaxHigh10: n, PrevMaxHigh30: n,
	}
}

func nanWeek() analyzer.WeeklyRow {
	n := math.NaN()
	return analyzer.WeeklyRow{
		Symbol: "W",
		Open:   n, High: n, Low: n, Close: n,
		PrevOpen: n, PrevHigh: n, PrevLow: n, PrevClose: n,
		Prev2Open: n, Prev2High: n, Prev2Low: n, Prev2Close: n,
		MinLow5: n, MinLow7: n, MinLow10: n, MaxHigh5: n, MaxHigh7: n, MaxHigh10: n,
	}
}

func dailyCase(set func(r *analyzer.DailyRow)) analyzer.DailyRow {
	r := nanRow()
	set(&r)
	return r
}

// dailyCases holds one minimal matching row per daily rule
var dailyCases = []struct {
	want string
	row  analyzer.DailyRow
}{
	{UTurnBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevLow = 100, 98
		r.Open, r.Close, r.Low, r.MinLow20 = 97, 101.5, 96, 96
		r.Volume, r.PrevVolume = 130, 100
	})},
	{UTurnSell, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevHigh = 100, 102
		r.Open, r.Close, r.High, r.MaxHigh15 = 103, 99, 104, 104
		r.Volume, r.PrevVolume = 700000, 500000
	})},
	{JumpStartBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevHigh, r.PrevLow, r.PrevMinLow10 = 100, 95, 95
		r.Open, r.Close, r.Low, r.High, r.MaxHigh50 = 101, 103, 100.5, 104, 120
		r.Volume, r.PrevVolume = 600000, 550000
	})},
	{JumpStartSell, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevLow, r.PrevHigh, r.PrevMaxHigh10 = 100, 105, 105
		r.Open, r.Close, r.High = 99, 97, 99.5
		r.AvgVol10, r.Volume, r.PrevVolume = 200000, 300000, 200000
	})},
	{FullStopBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevHigh, r.PrevLow, r.PrevMinLow30 = 100, 102, 97, 97
		r.Low, r.Open, r.Close = 101, 101.5, 103
		r.Volume, r.PrevVolume = 600000, 500000
	})},
	{FullStopSell, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevLow, r.PrevHigh, r.PrevMaxHigh30 = 100, 98, 103, 103
		r.High, r.Open, r.Close = 99, 98.8, 98.2
		r.Volume, r.PrevVolume = 600000, 500000
	})},
	{TurnAroundBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevLow, r.PrevClose = 100, 101
		r.Open, r.Close, r.Low, r.MinLow5 = 99, 101.1, 98, 98
		r.Volume, r.AvgVol5 = 1000, 800
	})},
	{TurnAroundSell, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevHigh, r.PrevClose = 103, 102
		r.High, r.MaxHigh5, r.Open, r.Close = 105, 105, 103.5, 101.9
		r.Volume, r.AvgVol5 = 1000, 800
	})},
	{ReverseBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevLow = 100, 98
		r.Close, r.Low, r.MinLow5, r.Open = 100.5, 97, 97, 100
		r.Volume, r.AvgVol5 = 700000, 500000
	})},
	{GapBuy, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevHigh = 100
		r.Low, r.Open, r.Close = 101.5, 102, 104
		r.Volume, r.MaxVol3, r.AvgVol10 = 300000, 300000, 250000
	})},
	{VolumeSpike, dailyCase(func(r *analyzer.DailyRow) {
		r.PrevVolume, r.Volume2Back = 1000000, 200000
		r.Volume, r.AvgVol90, r.Close = 500000, 300000, 250
	})},
}

func TestClassifyDailyEachRule(t *testing.T) {
	eval := NewEvaluator(DefaultOptions())

	for _, tc := range dailyCases {
		t.Run(tc.want, func(t *testing.T) {
			row := tc.row
			rule, ok := eval.ClassifyDaily(&row)
			if !ok {
				t.Fatalf("Expected %s, got no match", tc.want)
			}
			if rule.Name != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, rule.Name)
			}
		})
	}
}

func TestClassifyDailyUndefinedNeverMatches(t *testing.T) {
	eval := NewEvaluator(DefaultOptions())

	row := nanRow()
	row.Volume = 10000000
	if rule, ok := eval.ClassifyDaily(&row); ok {
		t.Errorf("Expected no match on an undefined row, got %s", rule.Name)
	}

	// Every rule needs volume history, so removing it clears every match
	for _, tc := range dailyCases {
		base := tc.row
		if _, ok := eval.ClassifyDaily(&base); !ok {
			t.Fatalf("%s: base row must match", tc.want)
		}
		broken := base
		broken.PrevVolume = math.NaN()
		broken.AvgVol5 = math.NaN()
		broken.AvgVol10 = math.NaN()
		broken.AvgVol90 = math.NaN()
		broken.MaxVol3 = math.NaN()
		if rule, ok := eval.ClassifyDaily(&broken); ok {
			t.Errorf("%s: Expected no match without volume history, got %s", tc.want, rule.Name)
		}
	}
}

func TestVolumeFloorIsStrict(t *testing.T) {
	eval := NewEvaluator(DefaultOptions())

	row := dailyCases[1].row // U-Turn (Sell) requires volume above 500000
	row.Volume = 500000
	row.PrevVolume = 400000
	if rule, ok := eval.ClassifyDaily(&row); ok && rule.Name == UTurnSell {
		t.Error("Expected volume of exactly 500000 to fail the floor")
	}

	row.Volume = 500001
	if rule, ok := eval.ClassifyDaily(&row); !ok || rule.Name != UTurnSell {
		t.Errorf("Expected %s just above the floor, got %v", UTurnSell, rule.Name)
	}

	week := nanWeek()
	week.Close, week.PrevClose, week.Low, week.MinLow7 = 101, 100, 90, 90
	week.Volume = 500000
	if weeklyReversal(&week, DefaultOptions()) {
		t.Error("Expected weekly volume of exactly 500000 to fail")
	}
}

func TestDailyPrecedenceLowestIDWins(t *testing.T) {
	eval := NewEvaluator(DefaultOptions())

	// Satisfies both Turn Around (Buy) and Reverse (Buy)
	row := dailyCase(func(r *analyzer.DailyRow) {
		r.PrevClose, r.PrevLow = 100, 98
		r.Open, r.Close, r.Low, r.MinLow5 = 97.9, 100.5, 97, 97
		r.Volume, r.AvgVol5 = 700000, 500000
	})
	if !turnAroundBuy(&row) || !reverseBuy(&row) {
		t.Fatal("Test row should satisfy both rules")
	}

	rule, ok := eval.ClassifyDaily(&row)
	if !ok || rule.Name != TurnAroundBuy || rule.ID != 7 {
		t.Errorf("Expected %s (7), got %s (%d)", TurnAroundBuy, rule.Name, rule.ID)
	}
}

func TestClassifyWeekly(t *testing.T) {
	both := nanWeek()
	both.Open, both.Close, both.Low, both.MinLow7 = 99, 101, 90, 90
	both.PrevClose, both.PrevHigh, both.Prev2Close = 100, 100.5, 99
	both.Volume = 600000

	onlyThree := both
	onlyThree.Volume = 400000

	tests := []struct {
		name string
		week analyzer.WeeklyRow
		want string
	}{
		{"both match, lower id wins", both, WeeklyReversal},
		{"3-week reversal only", onlyThree, ThreeWeekReversal},
		{"undefined history", nanWeek(), ""},
	}

	eval := NewEvaluator(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.week
			rule, ok := eval.ClassifyWeekly(&w)
			if tt.want == "" {
				if ok {
					t.Errorf("Expected no match, got %s", rule.Name)
				}
				return
			}
			if !ok || rule.Name != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, rule.Name)
			}
		})
	}
}

func TestStrictWeekly(t *testing.T) {
	strict := Options{StrictWeekly: true, WeeklyPriceCeiling: 5000}

	// Canonical match without a downtrend
	flat := nanWeek()
	flat.Open, flat.Close, flat.Low, flat.MinLow7 = 99, 101, 90, 90
	flat.PrevOpen, flat.PrevClose, flat.PrevHigh = 99, 100, 100.5
	flat.Prev2Open, flat.Prev2Close = 98, 99
	flat.Volume = 600000

	if !weeklyReversal(&flat, DefaultOptions()) || !threeWeekReversal(&flat, DefaultOptions()) {
		t.Fatal("Expected canonical matches")
	}
	if weeklyReversal(&flat, strict) || threeWeekReversal(&flat, strict) {
		t.Error("Expected strict mode to reject without a two-week downtrend")
	}

	// Two red weeks, each closing lower
	down := flat
	down.PrevOpen, down.PrevClose, down.PrevHigh = 100, 95, 100.5
	down.Prev2Open, down.Prev2Close = 104, 97
	down.Close = 101
	if !weeklyReversal(&down, strict) {
		t.Error("Expected strict Weekly Reversal with a downtrend")
	}
	if !threeWeekReversal(&down, strict) {
		t.Error("Expected strict 3-Week Reversal with a downtrend and 1% weekly gain")
	}

	pricey := down
	pricey.Close, pricey.Low, pricey.MinLow7, pricey.PrevClose = 6000, 10, 10, 95
	if weeklyReversal(&pricey, strict) {
		t.Error("Expected the price ceiling to reject a 6000 close")
	}
	if !weeklyReversal(&pricey, DefaultOptions()) {
		t.Error("Expected no ceiling in canonical mode")
	}

	weakWeek := down
	weakWeek.Open = 100.5 // close less than 1% above open
	if threeWeekReversal(&weakWeek, strict) {
		t.Error("Expected strict 3-Week Reversal to need a 1% weekly gain")
	}
}

func TestStopLoss(t *testing.T) {
	low, high := 90.0, 110.0
	tests := []struct {
		p    model.Polarity
		tf   model.Timeframe
		want float64
	}{
		{model.Buy, model.Daily, low * DailyBuyStop},
		{model.Buy, model.Weekly, low * WeeklyBuyStop},
		{model.Sell, model.Daily, high * SellStop},
		{model.Sell, model.Weekly, high * SellStop},
	}
	for _, tt := range tests {
		if got := StopLoss(tt.p, tt.tf, low, high); got != tt.want {
			t.Errorf("StopLoss(%s, %s): Expected %f, got %f", tt.p, tt.tf, tt.want, got)
		}
	}
}

func TestSignalProjection(t *testing.T) {
	row := dailyCases[0].row
	rule, _ := Lookup(UTurnBuy)
	sig := DailySignal(&row, rule)
	if sig.StopLoss != row.Low*DailyBuyStop || sig.RuleID != 1 || sig.Timeframe != model.Daily || !sig.IsBuy() {
		t.Errorf("Unexpected daily signal %+v", sig)
	}

	spike, _ := Lookup(VolumeSpike)
	srow := dailyCases[10].row
	srow.High = 260
	if s := DailySignal(&srow, spike); s.StopLoss != srow.High*SellStop || s.IsBuy() {
		t.Errorf("Expected Volume Spike to use the sell stop, got %+v", s)
	}

	week := nanWeek()
	week.Low, week.High, week.Close, week.Volume = 80, 120, 110, 900000
	wr, _ := Lookup(WeeklyReversal)
	ws := WeeklySignal(&week, wr)
	if ws.StopLoss != week.Low*WeeklyBuyStop || ws.Timeframe != model.Weekly || ws.Volume != 900000 {
		t.Errorf("Unexpected weekly signal %+v", ws)
	}
}

func TestCatalog(t *testing.T) {
	rules := Catalog()
	wantIDs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 11, 13, 15, 18}
	if len(rules) != len(wantIDs) {
		t.Fatalf("Expected %d rules, got %d", len(wantIDs), len(rules))
	}

	for i, r := range rules {
		if r.ID != wantIDs[i] {
			t.Errorf("Position %d: Expected id %d, got %d", i, wantIDs[i], r.ID)
		}
		switch {
		case strings.Contains(r.Name, "(Buy)"):
			if r.Polarity != model.Buy {
				t.Errorf("%s: Expected Buy polarity", r.Name)
			}
		case strings.Contains(r.Name, "(Sell)"):
			if r.Polarity != model.Sell {
				t.Errorf("%s: Expected Sell polarity", r.Name)
			}
		default:
			if r.Polarity != model.Sell {
				t.Errorf("%s: Expected the non-Buy stop branch", r.Name)
			}
		}
		wantTF := model.Daily
		if r.ID == 11 || r.ID == 13 {
			wantTF = model.Weekly
		}
		if r.Timeframe != wantTF {
			t.Errorf("%s: Expected timeframe %s, got %s", r.Name, wantTF, r.Timeframe)
		}
	}

	if _, err := Lookup("  u-turn (buy) "); err != nil {
		t.Errorf("Expected case-insensitive lookup, got %v", err)
	}
	if _, err := Lookup("Moonshot"); err == nil {
		t.Error("Expected error for unknown rule")
	}
	if names := Names(); names[0] != UTurnBuy || names[len(names)-1] != VolumeSpike {
		t.Errorf("Unexpected name order %v", names)
	}
}

func TestRegisterRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name   string
		rule   Rule
		daily  DailyPredicate
		weekly WeeklyPredicate
	}{
		{"no predicate", Rule{ID: 99, Name: "none"}, nil, nil},
		{"both predicates", Rule{ID: 98, Name: "both"}, uTurnBuy, weeklyReversal},
		{"duplicate id", Rule{ID: 1, Name: "dup"}, uTurnBuy, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			Register(tt.rule, tt.daily, tt.weekly)
		})
	}

	if len(Catalog()) != 13 {
		t.Errorf("Expected catalogue unchanged, got %d rules", len(Catalog()))
	}
}

func TestEvaluateSeriesMatchesClassify(t *testing.T) {
	eval := NewEvaluator(DefaultOptions())
	if eval.Options() != DefaultOptions() {
		t.Error("Expected evaluator to keep its options")
	}

	daily, weekly := eval.EvaluateSeries(analyzer.Series{Symbol: "EMPTY"})
	if len(daily) != 0 || len(weekly) != 0 {
		t.Error("Expected no signals for an empty series")
	}
}
