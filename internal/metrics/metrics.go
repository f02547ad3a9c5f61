// Package metrics exposes Prometheus instrumentation for the nextup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, endpoint and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextup_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration observes HTTP request latency by endpoint.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nextup_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// InterpretLatency observes how long interpreting a chat message takes,
	// labeled by which interpreter handled it.
	InterpretLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nextup_interpret_latency_seconds",
			Help:    "Chat message interpretation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"interpreter"},
	)

	// FallbackTotal counts interpretations routed to the deterministic
	// fallback, by reason.
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextup_fallback_total",
			Help: "Interpretations handled by the rule-based fallback, by reason.",
		},
		[]string{"reason"},
	)

	// ActionsApplied counts assistant actions persisted successfully, by type.
	ActionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextup_actions_applied_total",
			Help: "Assistant actions applied to the store, by action type.",
		},
		[]string{"type"},
	)

	// ActionsSkipped counts assistant actions dropped during execution.
	ActionsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextup_actions_skipped_total",
			Help: "Assistant actions skipped during execution, by reason.",
		},
		[]string{"reason"},
	)
)

// Fallback reasons.
const (
	ReasonUnconfigured = "unconfigured"
	ReasonBreakerOpen  = "breaker_open"
	ReasonQuota        = "quota"
	ReasonModelError   = "model_error"
)

// Skip reasons.
const (
	SkipEmptyPayload = "empty_payload"
	SkipStoreError   = "store_error"
	SkipUnknownType  = "unknown_type"
)
