package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gatewayOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mozhi_gateway_outcomes_total",
		Help: "Translation gateway outcomes by kind and whether the offline table answered",
	},
	[]string{"kind", "offline"},
)

func recordOutcome(r Result) {
	offline := "false"
	if r.Offline {
		offline = "true"
	}
	gatewayOutcomesTotal.WithLabelValues(string(r.Kind), offline).Inc()
}
