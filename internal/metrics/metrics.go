// Package metrics exposes prometheus collectors for the fusion pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts upstream resource fetches by source name and outcome
	// ("ok", "unavailable", "malformed").
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "municat_fetch_total",
		Help: "Total upstream resource fetches by source and status",
	}, []string{"source", "status"})

	// FuseDurationSeconds observes the wall time of a full load cycle.
	FuseDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "municat_fuse_duration_seconds",
		Help:    "Load cycle duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	// LoadCyclesTotal counts completed load cycles by status ("ok", "error").
	LoadCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "municat_load_cycles_total",
		Help: "Total load cycles by status",
	}, []string{"status"})

	// MunicipalitiesFused reports how many municipalities the latest feature
	// table covers.
	MunicipalitiesFused = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "municat_municipalities_fused",
		Help: "Municipalities in the most recent feature table",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal, FuseDurationSeconds, LoadCyclesTotal, MunicipalitiesFused)
}

// Handler returns the HTTP handler serving the prometheus text exposition.
func Handler() http.Handler {
	return promhttp.Handler()
}
