package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks total HTTP requests by method, path and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks in-flight HTTP requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Signed URL cache metrics
var (
	// SignedURLCacheHits tracks signed URL cache hits
	SignedURLCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signed_url_cache_hits_total",
			Help: "Total number of signed URL cache hits",
		},
	)

	// SignedURLCacheMisses tracks signed URL cache misses
	SignedURLCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signed_url_cache_misses_total",
			Help: "Total number of signed URL cache misses",
		},
	)

	// SignedURLCacheSize tracks live entries in the signed URL cache
	SignedURLCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signed_url_cache_size",
			Help: "Number of entries currently in the signed URL cache",
		},
	)

	// PresignRequestsTotal tracks presign calls against object storage
	PresignRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_requests_total",
			Help: "Total number of presign requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Authorization metrics
var (
	// AccessChecksTotal tracks access checks by decision
	AccessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_checks_total",
			Help: "Total number of property access checks by action and decision",
		},
		[]string{"action", "decision"},
	)
)

// Search metrics
var (
	// SearchRequestsTotal tracks property searches by outcome
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_search_requests_total",
			Help: "Total number of property search requests by outcome",
		},
		[]string{"outcome"},
	)

	// SearchDuration tracks search execution duration
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "property_search_duration_seconds",
			Help:    "Property search duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

// Background job metrics
var (
	// EmailJobsTotal tracks queued email jobs by type and status
	EmailJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_jobs_total",
			Help: "Total number of email jobs by type and status",
		},
		[]string{"type", "status"},
	)

	// InvitationsExpiredTotal tracks invitations expired by the sweeper
	InvitationsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invitations_expired_total",
			Help: "Total number of invitations marked expired by the sweep job",
		},
	)
)
