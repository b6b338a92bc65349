package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"swinglab/pkg/model"
)

// ErrNothingHarvested is returned when no symbol produced any bars
var ErrNothingHarvested = errors.New("no symbols harvested")

// HarvestReport summarizes a harvest run
type HarvestReport struct {
	Requested int
	Succeeded []string
	Failed    map[string]error
}

// Harvester downloads daily history for a symbol list and strips the
// exchange suffix from the stored symbol
type Harvester struct {
	provider Provider
	suffix   string
	days     int
	logger   zerolog.Logger
	onDone   func(symbol string, err error)
}

// NewHarvester creates a harvester. Symbols are requested as symbol+suffix.
func NewHarvester(p Provider, suffix string, days int, logger zerolog.Logger) *Harvester {
	return &Harvester{
		provider: p,
		suffix:   suffix,
		days:     days,
		logger:   logger,
	}
}

// OnSymbolDone registers a callback invoked after each symbol, successful or not
func (h *Harvester) OnSymbolDone(fn func(symbol string, err error)) {
	h.onDone = fn
}

// Harvest fetches every symbol in order. Failing symbols are logged and
// skipped; the run fails only when nothing was harvested or ctx ends.
func (h *Harvester) Harvest(ctx context.Context, symbols []string) ([]model.Bar, HarvestReport, error) {
	report := HarvestReport{
		Requested: len(symbols),
		Failed:    make(map[string]error),
	}

	var all []model.Bar
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		ticker := sym + h.suffix
		bars, err := h.provider.GetDailyBars(ctx, ticker, h.days)
		if err != nil {
			report.Failed[sym] = err
			h.logger.Warn().Err(err).Str("symbol", ticker).Bool("retryable", IsRetryable(err)).Msg("harvest failed")
		} else {
			for i := range bars {
				bars[i].Symbol = strings.TrimSuffix(bars[i].Symbol, h.suffix)
			}
			all = append(all, bars...)
			report.Succeeded = append(report.Succeeded, sym)
			h.logger.Debug().Str("symbol", sym).Int("bars", len(bars)).Msg("harvested")
		}

		if h.onDone != nil {
			h.onDone(sym, err)
		}
	}

	if len(report.Succeeded) == 0 {
		return nil, report, fmt.Errorf("%w (%d requested)", ErrNothingHarvested, len(symbols))
	}
	return all, report, nil
}
