package build

import "github.com/prometheus/client_golang/prometheus"

var (
	buildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pseudovision_build_duration_seconds",
		Help:    "Wall-clock time spent inside one playout build transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	eventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pseudovision_build_events_emitted_total",
		Help: "Count of events written by a playout build.",
	}, []string{"channel_id"})

	buildFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pseudovision_build_failures_total",
		Help: "Count of playout builds that aborted without committing.",
	}, []string{"channel_id"})
)

// RegisterMetrics wires this package's collectors into registry. Safe to
// call once at process startup; a nil registry is a no-op so tests that
// build a driver without a metrics endpoint don't need to register anything.
func RegisterMetrics(registry *prometheus.Registry) {
	if registry == nil {
		return
	}
	registry.MustRegister(buildDuration, eventsEmitted, buildFailures)
}
