package scanner

import (
	"time"

	"swinglab/internal/analyzer"
	"swinglab/internal/strategy"
	"swinglab/pkg/model"
)

// entityResult holds one symbol's signals before merging
type entityResult struct {
	daily  []model.Signal
	weekly []model.Signal
}

// assemble concatenates all daily signals and then all weekly signals.
// results are already in symbol order and each list is chronological, so the
// output is ordered by (symbol, date) within each timeframe. Signals dated
// before since are dropped; a zero since keeps everything.
func assemble(results []entityResult, since time.Time) []model.Signal {
	out := make([]model.Signal, 0)
	for _, r := range results {
		out = appendSince(out, r.daily, since)
	}
	for _, r := range results {
		out = appendSince(out, r.weekly, since)
	}
	return out
}

func appendSince(dst, src []model.Signal, since time.Time) []model.Signal {
	for _, s := range src {
		if !since.IsZero() && s.Date.Before(since) {
			continue
		}
		dst = append(dst, s)
	}
	return dst
}

// evaluateAll runs every series sequentially
func evaluateAll(series []analyzer.Series, eval *strategy.Evaluator) []entityResult {
	results := make([]entityResult, len(series))
	for i, s := range series {
		results[i].daily, results[i].weekly = eval.EvaluateSeries(s)
	}
	return results
}

// LatestDate returns the most recent trading date across all series
func LatestDate(series []analyzer.Series) time.Time {
	var latest time.Time
	for _, s := range series {
		if n := len(s.Bars); n > 0 && s.Bars[n-1].Time.After(latest) {
			latest = s.Bars[n-1].Time
		}
	}
	return latest
}

// Evaluate is the pure entry point: bars in, signals out.
// It holds no state between calls and produces identical output for identical input.
func Evaluate(bars []model.Bar, opts strategy.Options) ([]model.Signal, error) {
	series, _ := analyzer.Normalize(bars)
	return assemble(evaluateAll(series, strategy.NewEvaluator(opts)), time.Time{}), nil
}

// EvaluateTable is Evaluate over an untyped table. Missing columns fail with
// a *analyzer.SchemaError; unusable rows are dropped.
func EvaluateTable(raw analyzer.RawTable, opts strategy.Options) ([]model.Signal, error) {
	series, _, err := analyzer.NormalizeTable(raw)
	if err != nil {
		return nil, err
	}
	return assemble(evaluateAll(series, strategy.NewEvaluator(opts)), time.Time{}), nil
}
