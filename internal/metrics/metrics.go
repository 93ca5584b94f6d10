// Package metrics holds Prometheus instruments that are used across the
// gateway.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Inbound form submissions by endpoint.",
		}, []string{"endpoint"})

	PipelineErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_pipeline_errors_total",
			Help: "Pipeline failures by endpoint and error kind.",
		}, []string{"endpoint", "kind"})

	OutboundCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_provider_calls_total",
			Help: "Outbound provider calls by provider and outcome.",
		}, []string{"provider", "outcome"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		PipelineErrorsTotal,
		OutboundCallsTotal,
	)
}

// ObserveOutbound increments the outbound-call counter with a coarse
// outcome label ("ok", "refused", or "transport").
func ObserveOutbound(provider string, status int, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "transport"
	case status < 200 || status > 299:
		outcome = "refused"
	}
	OutboundCallsTotal.WithLabelValues(provider, outcome).Inc()
}
