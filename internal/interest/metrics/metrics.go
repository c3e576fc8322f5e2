// Package metrics provides observability for the interest ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ledger expression outcomes.
type Metrics struct {
	Expressed  prometheus.Counter
	Retracted  prometheus.Counter
	CapReached prometheus.Counter
}

// New creates a Metrics instance with all ledger metrics registered.
func New() *Metrics {
	return &Metrics{
		Expressed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_interests_expressed_total",
			Help: "Total number of accepted intent expressions",
		}),
		Retracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_interests_retracted_total",
			Help: "Total number of intent retractions",
		}),
		CapReached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tandem_interests_cap_reached_total",
			Help: "Total number of expressions blocked by the ledger cap",
		}),
	}
}
