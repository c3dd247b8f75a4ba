// Package metrics wires the proxy's request pipeline to a handful of
// Prometheus collectors, served on the engine's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts every request the proxy handled, labeled by
	// terminal outcome (forwarded, blocked, error).
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starproxy_requests_total",
			Help: "Total requests handled by the proxy, by outcome.",
		},
		[]string{"outcome"},
	)

	// RuleViolationsTotal counts rule evaluations that returned a
	// violation, labeled by rule name and the action taken (or "none").
	RuleViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starproxy_rule_violations_total",
			Help: "Total rule violations, by rule name and action.",
		},
		[]string{"rule", "action"},
	)

	// ExplainCallDuration observes the latency of the upstream EXPLAIN
	// round trip the ScanEstimates evaluator performs.
	ExplainCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starproxy_explain_call_duration_seconds",
			Help:    "Duration of the upstream EXPLAIN statement round trip.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ExplainCallFailures counts EXPLAIN round trips that failed
	// (network, non-2xx, or decode error) and were treated as no-violation
	// per the fail-open policy.
	ExplainCallFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "starproxy_explain_call_failures_total",
			Help: "Total EXPLAIN upstream calls that failed and were treated as no-violation.",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, RuleViolationsTotal, ExplainCallDuration, ExplainCallFailures)
}
