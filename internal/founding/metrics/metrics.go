// Package metrics provides observability for founding access grants.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the token pool and grant lifecycle.
type Metrics struct {
	TokensRedeemed    prometheus.Counter
	RedeemsRejected   prometheus.Counter
	AccessActivated   prometheus.Counter
	GrantsOutstanding prometheus.Gauge
}

// New creates a Metrics instance with all founding metrics registered.
func New() *Metrics {
	return &Metrics{
		TokensRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_founding_tokens_redeemed_total",
			Help: "Total number of invitation tokens successfully redeemed",
		}),
		RedeemsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_founding_redeems_rejected_total",
			Help: "Total number of redemption attempts rejected (unknown token, consumed token, or pool at cap)",
		}),
		AccessActivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_founding_access_activated_total",
			Help: "Total number of couples whose founding access activated",
		}),
		GrantsOutstanding: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tandem_founding_grants",
			Help: "Current value of the global granted counter",
		}),
	}
}
