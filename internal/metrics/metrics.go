package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swinglab_rows_dropped_total", Help: "Input rows dropped during normalization"},
		[]string{"reason"},
	)
	EntitiesScanned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "swinglab_entities_scanned_total", Help: "Symbols run through the signal pipeline"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swinglab_signals_total", Help: "Signals emitted"},
		[]string{"signal", "timeframe"},
	)
)

func init() {
	prometheus.MustRegister(RowsDropped, EntitiesScanned, SignalsTotal)
}

// Serve exposes /metrics on addr in the background
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
