package model

import "time"

// Bar represents one trading day of OHLCV data for a single symbol
type Bar struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Polarity is the directional bias implied by a signal
type Polarity string

const (
	Buy  Polarity = "Buy"
	Sell Polarity = "Sell"
)

// Timeframe identifies which bar series a signal was detected on
type Timeframe string

const (
	Daily  Timeframe = "daily"
	Weekly Timeframe = "weekly"
)

// Signal is a named pattern match on one bar or week
type Signal struct {
	Symbol    string    `json:"symbol"`
	Close     float64   `json:"close"`
	StopLoss  float64   `json:"stop_loss"`
	Name      string    `json:"signal"`
	Volume    int64     `json:"volume"`
	Date      time.Time `json:"date"`
	RuleID    int       `json:"rule_id"`
	Timeframe Timeframe `json:"timeframe"`
	Polarity  Polarity  `json:"polarity"`
}

// IsBuy reports whether the signal carries a long bias
func (s Signal) IsBuy() bool {
	return s.Polarity == Buy
}

// ScanResult represents the final scan output
type ScanResult struct {
	RunID         string        `json:"run_id"`
	AsOf          time.Time     `json:"as_of"`
	TotalScanned  int           `json:"total_scanned"`
	MatchingCount int           `json:"matching_count"`
	Signals       []Signal      `json:"signals"`
	ScanTime      time.Duration `json:"scan_time"`
}
