package scanner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"swinglab/internal/analyzer"
	"swinglab/internal/metrics"
	"swinglab/internal/strategy"
	"swinglab/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Scanner evaluates symbols in parallel. Each symbol is an independent
// partition; results are merged in symbol order so the output matches Evaluate.
type Scanner struct {
	opts         strategy.Options
	workers      int
	timeout      time.Duration
	since        time.Time
	logger       zerolog.Logger
	progressFunc ProgressCallback
}

// NewScanner creates a new scanner
func NewScanner(opts strategy.Options, workers int, timeout time.Duration, logger zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		opts:    opts,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// SetSince drops signals dated before t from scan results
func (s *Scanner) SetSince(t time.Time) {
	s.since = t
}

// ScanTable normalizes a raw table and scans it
func (s *Scanner) ScanTable(ctx context.Context, raw analyzer.RawTable) (*model.ScanResult, error) {
	series, stats, err := analyzer.NormalizeTable(raw)
	if err != nil {
		return nil, err
	}
	return s.scanSeries(ctx, series, stats)
}

// Scan normalizes typed bars and scans them
func (s *Scanner) Scan(ctx context.Context, bars []model.Bar) (*model.ScanResult, error) {
	series, stats := analyzer.Normalize(bars)
	return s.scanSeries(ctx, series, stats)
}

func (s *Scanner) scanSeries(ctx context.Context, series []analyzer.Series, stats analyzer.NormalizeStats) (*model.ScanResult, error) {
	startTime := time.Now()
	s.recordStats(stats, len(series))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	eval := strategy.NewEvaluator(s.opts)
	results := make([]entityResult, len(series))

	// Progress counter
	var scannedCount int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range series {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].daily, results[i].weekly = eval.EvaluateSeries(series[i])

			count := atomic.AddInt64(&scannedCount, 1)
			if s.progressFunc != nil {
				s.progressFunc(int(count), len(series))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Int64("scanned", atomic.LoadInt64(&scannedCount)).Msg("scan aborted")
		return nil, err
	}

	signals := assemble(results, s.since)
	for _, sig := range signals {
		metrics.SignalsTotal.WithLabelValues(sig.Name, string(sig.Timeframe)).Inc()
	}

	result := &model.ScanResult{
		RunID:         uuid.NewString(),
		AsOf:          LatestDate(series),
		TotalScanned:  len(series),
		MatchingCount: len(signals),
		Signals:       signals,
		ScanTime:      time.Since(startTime),
	}
	s.logger.Info().
		Str("run_id", result.RunID).
		Int("entities", result.TotalScanned).
		Int("signals", result.MatchingCount).
		Dur("elapsed", result.ScanTime).
		Msg("scan complete")
	return result, nil
}

func (s *Scanner) recordStats(stats analyzer.NormalizeStats, entities int) {
	drops := map[string]int{
		"bad_timestamp": stats.BadTimestamp,
		"bad_volume":    stats.BadVolume,
		"blank_symbol":  stats.BlankSymbol,
		"duplicate":     stats.Duplicate,
	}
	for reason, n := range drops {
		if n > 0 {
			metrics.RowsDropped.WithLabelValues(reason).Add(float64(n))
		}
	}
	metrics.EntitiesScanned.Add(float64(entities))

	s.logger.Info().
		Int("rows", stats.Rows).
		Int("kept", stats.Kept).
		Int("dropped", stats.Dropped()).
		Int("entities", entities).
		Msg("input normalized")
	if stats.Dropped() > 0 {
		s.logger.Debug().
			Int("bad_timestamp", stats.BadTimestamp).
			Int("bad_volume", stats.BadVolume).
			Int("blank_symbol", stats.BlankSymbol).
			Int("duplicate", stats.Duplicate).
			Msg("rows dropped")
	}
}
