// Package strategy holds the signal catalogue and classifies daily rows and
// weekly bars into at most one named signal each.
package strategy

import (
	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// Evaluator classifies rows against a snapshot of the catalogue
type Evaluator struct {
	opts   Options
	daily  []Rule
	weekly []Rule
}

// NewEvaluator creates an evaluator over the registered rules
func NewEvaluator(opts Options) *Evaluator {
	return &Evaluator{
		opts:   opts,
		daily:  rulesFor(model.Daily),
		weekly: rulesFor(model.Weekly),
	}
}

// Options returns the options the evaluator was built with
func (e *Evaluator) Options() Options {
	return e.opts
}

// ClassifyDaily returns the lowest-numbered daily rule matching the row
func (e *Evaluator) ClassifyDaily(r *analyzer.DailyRow) (Rule, bool) {
	for _, rule := range e.daily {
		if rule.MatchDaily(r) {
			return rule, true
		}
	}
	return Rule{}, false
}

// ClassifyWeekly returns the lowest-numbered weekly rule matching the week
func (e *Evaluator) ClassifyWeekly(w *analyzer.WeeklyRow) (Rule, bool) {
	for _, rule := range e.weekly {
		if rule.MatchWeekly(w, e.opts) {
			return rule, true
		}
	}
	return Rule{}, false
}

// EvaluateSeries runs the daily and weekly pipelines for one symbol.
// Both results are in chronological order.
func (e *Evaluator) EvaluateSeries(s analyzer.Series) (daily, weekly []model.Signal) {
	rows := analyzer.DeriveDaily(s)
	for i := range rows {
		if rule, ok := e.ClassifyDaily(&rows[i]); ok {
			daily = append(daily, DailySignal(&rows[i], rule))
		}
	}

	weeks := analyzer.AggregateWeekly(s)
	for i := range weeks {
		if rule, ok := e.ClassifyWeekly(&weeks[i]); ok {
			weekly = append(weekly, WeeklySignal(&weeks[i], rule))
		}
	}
	return daily, weekly
}
