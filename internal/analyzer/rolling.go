package analyzer

import "math"

// Window helpers over one symbol's column. Position i aggregates [i-n+1, i];
// the result is NaN until n values exist or when any value in the window is NaN.

func shift(vals []float64, n int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
			continue
		}
		out[i] = vals[i-n]
	}
	return out
}

func rolling(vals []float64, n int, agg func(window []float64) float64) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		if n <= 0 || i+1 < n {
			out[i] = math.NaN()
			continue
		}
		window := vals[i-n+1 : i+1]
		if hasNaN(window) {
			out[i] = math.NaN()
			continue
		}
		out[i] = agg(window)
	}
	return out
}

func rollingMin(vals []float64, n int) []float64 {
	return rolling(vals, n, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Min(m, v)
		}
		return m
	})
}

func rollingMax(vals []float64, n int) []float64 {
	return rolling(vals, n, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Max(m, v)
		}
		return m
	})
}

func rollingMean(vals []float64, n int) []float64 {
	return rolling(vals, n, func(w []float64) float64 {
		var sum float64
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

func hasNaN(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// column extracts one field from a bar-like slice
func column[T any](rows []T, field func(T) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = field(r)
	}
	return out
}
