package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets for profile API calls, from fast local responses up to slow uploads on mobile networks
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// Profile API client metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gobarber_api_client_duration_seconds",
			Help:    "Profile API call duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	APIRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_api_client_total",
			Help: "Total number of profile API calls",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Workflow Metrics
	ProfileUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_profile_updates_total",
			Help: "Total number of profile update attempts by outcome",
		},
		[]string{"status"}, // success, validation_failed, error
	)

	AvatarUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_avatar_uploads_total",
			Help: "Total number of avatar capture flows by outcome",
		},
		[]string{"status"}, // success, cancelled, source_error, error
	)

	APIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_api_client_retries_total",
			Help: "Total number of repeated API calls after a retryable failure",
		},
		[]string{"operation"},
	)

	SessionUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gobarber_session_updates_total",
			Help: "Total number of session record replacements",
		},
	)

	// Object storage metrics (mock API avatar backend)
	StorageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gobarber_storage_request_duration_seconds",
			Help:    "Object storage request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_storage_request_total",
			Help: "Total number of object storage requests",
		},
		[]string{"operation", "status"},
	)

	// Mock server metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gobarber_mockapi_request_duration_seconds",
			Help:    "Mock API request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gobarber_mockapi_active_requests",
			Help: "Number of in-flight mock API requests",
		},
		[]string{"http_request_method"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobarber_mockapi_request_total",
			Help: "Total number of HTTP requests served by the mock API",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)
)

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
