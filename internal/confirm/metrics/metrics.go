// Package metrics provides observability for the dual-confirmation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks action lifecycle transitions and tap latency.
type Metrics struct {
	ActionsCreated   prometheus.Counter
	ActionsConfirmed prometheus.Counter
	ActionsExpired   prometheus.Counter
	ActionsRetracted prometheus.Counter
	TapDuration      prometheus.Histogram
}

// New creates a Metrics instance with all confirmation metrics registered.
func New() *Metrics {
	return &Metrics{
		ActionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_confirm_actions_created_total",
			Help: "Total number of confirmation actions created",
		}),
		ActionsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_confirm_actions_confirmed_total",
			Help: "Total number of actions reaching the confirmed latch",
		}),
		ActionsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_confirm_actions_expired_total",
			Help: "Total number of pending actions expired by the sweeper",
		}),
		ActionsRetracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_confirm_actions_retracted_total",
			Help: "Total number of partner retractions",
		}),
		TapDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tandem_confirm_tap_duration_seconds",
			Help:    "Duration of tap operations (confirmation critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveTap records the duration of a tap operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTap(start time.Time) {
	m.TapDuration.Observe(time.Since(start).Seconds())
}
