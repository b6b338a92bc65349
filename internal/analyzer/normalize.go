package analyzer

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"swinglab/pkg/model"
)

// Series is one symbol's bars in strictly increasing date order
type Series struct {
	Symbol string
	Bars   []model.Bar
}

// NormalizeStats counts what happened to input rows during normalization
type NormalizeStats struct {
	Rows         int `json:"rows"`
	Kept         int `json:"kept"`
	BadTimestamp int `json:"bad_timestamp"`
	BadVolume    int `json:"bad_volume"`
	BlankSymbol  int `json:"blank_symbol"`
	Duplicate    int `json:"duplicate"`
}

// Dropped returns the total number of rows removed
func (s NormalizeStats) Dropped() int {
	return s.BadTimestamp + s.BadVolume + s.BlankSymbol + s.Duplicate
}

func (s *NormalizeStats) add(o NormalizeStats) {
	s.Rows += o.Rows
	s.Kept += o.Kept
	s.BadTimestamp += o.BadTimestamp
	s.BadVolume += o.BadVolume
	s.BlankSymbol += o.BlankSymbol
	s.Duplicate += o.Duplicate
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006/01/02",
}

// parseTimestamp tries each supported layout in turn
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TradingDate reduces a timestamp to its calendar date, expressed as UTC midnight.
// The date is taken in the timestamp's own location so that exchange-local
// midnights do not roll back a day.
func TradingDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseVolume accepts integers and integral floats ("1200.0" as pandas writes them)
func parseVolume(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, false
		}
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// ParseTable converts a raw table into typed bars.
// A missing required column is fatal; bad rows are dropped and counted.
func ParseTable(raw RawTable) ([]model.Bar, NormalizeStats, error) {
	var stats NormalizeStats

	idx, err := resolveColumns(raw.Columns)
	if err != nil {
		return nil, stats, err
	}

	cell := func(row []string, c Column) string {
		i := idx[c]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	bars := make([]model.Bar, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		stats.Rows++

		symbol := strings.TrimSpace(cell(row, ColSymbol))
		if symbol == "" {
			stats.BlankSymbol++
			continue
		}
		ts, ok := parseTimestamp(cell(row, ColTimestamp))
		if !ok {
			stats.BadTimestamp++
			continue
		}
		volume, ok := parseVolume(cell(row, ColVolume))
		if !ok {
			stats.BadVolume++
			continue
		}

		bars = append(bars, model.Bar{
			Symbol: symbol,
			Time:   ts,
			Open:   parsePrice(cell(row, ColOpen)),
			High:   parsePrice(cell(row, ColHigh)),
			Low:    parsePrice(cell(row, ColLow)),
			Close:  parsePrice(cell(row, ColClose)),
			Volume: volume,
		})
	}
	return bars, stats, nil
}

// Normalize sorts bars by (symbol, date), drops duplicate dates keeping the
// first occurrence in input order, and partitions the result per symbol.
// The input slice is not modified.
func Normalize(bars []model.Bar) ([]Series, NormalizeStats) {
	stats := NormalizeStats{Rows: len(bars)}

	clean := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		b.Symbol = strings.TrimSpace(b.Symbol)
		if b.Symbol == "" {
			stats.BlankSymbol++
			continue
		}
		if b.Time.IsZero() {
			stats.BadTimestamp++
			continue
		}
		if b.Volume < 0 {
			stats.BadVolume++
			continue
		}
		b.Time = TradingDate(b.Time)
		clean = append(clean, b)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		if clean[i].Symbol != clean[j].Symbol {
			return clean[i].Symbol < clean[j].Symbol
		}
		return clean[i].Time.Before(clean[j].Time)
	})

	var series []Series
	for i, b := range clean {
		if i > 0 && clean[i-1].Symbol == b.Symbol && clean[i-1].Time.Equal(b.Time) {
			stats.Duplicate++
			continue
		}
		if len(series) == 0 || series[len(series)-1].Symbol != b.Symbol {
			series = append(series, Series{Symbol: b.Symbol})
		}
		last := &series[len(series)-1]
		last.Bars = append(last.Bars, b)
		stats.Kept++
	}
	return series, stats
}

// NormalizeTable parses and normalizes a raw table in one step
func NormalizeTable(raw RawTable) ([]Series, NormalizeStats, error) {
	bars, parseStats, err := ParseTable(raw)
	if err != nil {
		return nil, parseStats, err
	}
	series, stats := Normalize(bars)
	stats.Rows = 0
	stats.add(parseStats)
	return series, stats, nil
}
