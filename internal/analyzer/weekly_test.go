package analyzer

import (
	"math"
	"testing"
	"time"

	"swinglab/pkg/model"
)

func TestWeekEnding(t *testing.T) {
	fri := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), fri},  // Monday
		{time.Date(2024, 3, 7, 18, 0, 0, 0, time.UTC), fri}, // Thursday evening
		{fri, fri}, // Friday
		{time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), fri.AddDate(0, 0, 7)},  // Saturday rolls forward
		{time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), fri.AddDate(0, 0, 7)}, // Sunday rolls forward
	}

	for _, tt := range tests {
		if got := WeekEnding(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekEnding(%s): Expected %s, got %s", tt.in.Format("Mon 2006-01-02"), tt.want, got)
		}
	}
}

func TestAggregateWeeklyIdentities(t *testing.T) {
	s := sessions("W", 37, 50)
	// Drop a mid-week session to get a short week
	s.Bars = append(s.Bars[:12], s.Bars[13:]...)

	weeks := AggregateWeekly(s)
	if len(weeks) != 8 {
		t.Fatalf("Expected 8 weeks, got %d", len(weeks))
	}

	i := 0
	for _, w := range weeks {
		if w.WeekEnd.Weekday() != time.Friday {
			t.Errorf("Expected Friday week end, got %s", w.WeekEnd.Weekday())
		}

		var days []model.Bar
		for ; i < len(s.Bars) && WeekEnding(s.Bars[i].Time).Equal(w.WeekEnd); i++ {
			days = append(days, s.Bars[i])
		}
		if len(days) != w.Days || len(days) == 0 {
			t.Fatalf("Week %s: Expected %d days, got %d", w.WeekEnd.Format("2006-01-02"), len(days), w.Days)
		}

		high, low := math.Inf(-1), math.Inf(1)
		var vol int64
		for _, d := range days {
			high = math.Max(high, d.High)
			low = math.Min(low, d.Low)
			vol += d.Volume
		}
		if w.Open != days[0].Open || w.Close != days[len(days)-1].Close || w.High != high || w.Low != low || w.Volume != vol {
			t.Errorf("Week %s: aggregate mismatch %+v", w.WeekEnd.Format("2006-01-02"), w)
		}
	}

	if weeks[2].Days != 4 {
		t.Errorf("Expected the short week to have 4 days, got %d", weeks[2].Days)
	}
}

func TestAggregateWeeklyDropsIncompleteWeeks(t *testing.T) {
	s := sessions("W", 15, 50)
	s.Bars[6].High = math.NaN() // second week

	weeks := AggregateWeekly(s)
	if len(weeks) != 2 {
		t.Fatalf("Expected 2 weeks after dropping one, got %d", len(weeks))
	}
	if !weeks[1].WeekEnd.Equal(time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected the third week to follow the first, got %s", weeks[1].WeekEnd)
	}
	// Shifts run over emitted weeks only
	if weeks[1].PrevClose != weeks[0].Close {
		t.Errorf("Expected PrevClose %f, got %f", weeks[0].Close, weeks[1].PrevClose)
	}
}

func TestAggregateWeeklyFeatures(t *testing.T) {
	weeks := AggregateWeekly(sessions("W", 60, 100))
	if len(weeks) != 12 {
		t.Fatalf("Expected 12 weeks, got %d", len(weeks))
	}

	for i, w := range weeks {
		if (i < 1) != math.IsNaN(w.PrevHigh) {
			t.Errorf("Week %d: PrevHigh definedness wrong (%f)", i, w.PrevHigh)
		}
		if (i < 2) != math.IsNaN(w.Prev2Close) {
			t.Errorf("Week %d: Prev2Close definedness wrong (%f)", i, w.Prev2Close)
		}
		if (i < 6) != math.IsNaN(w.MinLow7) {
			t.Errorf("Week %d: MinLow7 definedness wrong (%f)", i, w.MinLow7)
		}
		if (i < 9) != math.IsNaN(w.MaxHigh10) {
			t.Errorf("Week %d: MaxHigh10 definedness wrong (%f)", i, w.MaxHigh10)
		}
	}

	last := weeks[11]
	if last.MinLow7 != weeks[5].Low {
		t.Errorf("Expected MinLow7 %f, got %f", weeks[5].Low, last.MinLow7)
	}
	if last.MaxHigh5 != last.High {
		t.Errorf("Expected MaxHigh5 to be this week's high in an uptrend, got %f", last.MaxHigh5)
	}
	if last.Prev2Open != weeks[9].Open {
		t.Errorf("Expected Prev2Open %f, got %f", weeks[9].Open, last.Prev2Open)
	}
}
