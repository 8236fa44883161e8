// Package metrics provides Prometheus metrics for the voice service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensIssued counts access tokens minted.
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_tokens_issued_total",
			Help: "Total number of LiveKit access tokens issued",
		},
	)

	// TokenFailures counts token requests that could not be served.
	TokenFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_token_failures_total",
			Help: "Total number of failed token requests by reason",
		},
		[]string{"reason"},
	)

	// TokenGenerationDuration tracks token signing time.
	TokenGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voice_token_generation_duration_seconds",
			Help:    "Duration of LiveKit token generation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	// ConnectorTransitions tracks voice session state changes.
	ConnectorTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_session_state_transitions_total",
			Help: "Total number of voice session state transitions",
		},
		[]string{"from_state", "to_state"},
	)

	// TrackedRooms is the number of rooms with presence tracking.
	TrackedRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voice_tracked_rooms",
			Help: "Number of rooms tracked for presence",
		},
	)

	// RoomSyncDuration tracks the duration of LiveKit presence syncs.
	RoomSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "voice_room_sync_duration_seconds",
			Help:    "Duration of LiveKit room presence sync cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RoomSyncErrors counts failed presence syncs.
	RoomSyncErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voice_room_sync_errors_total",
			Help: "Total number of failed LiveKit room presence syncs",
		},
	)

	// HTTPRequests counts served requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voice_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Recorder feeds domain events into the package metrics.
type Recorder struct{}

// NewRecorder returns a metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// TokenIssued records a minted token.
func (Recorder) TokenIssued(_ string, elapsed time.Duration) {
	TokensIssued.Inc()
	TokenGenerationDuration.Observe(elapsed.Seconds())
}

// TokenFailed records a failed token request.
func (Recorder) TokenFailed(reason string) {
	TokenFailures.WithLabelValues(reason).Inc()
}

// SyncCompleted records a presence sync cycle.
func (Recorder) SyncCompleted(elapsed time.Duration, tracked int) {
	RoomSyncDuration.Observe(elapsed.Seconds())
	TrackedRooms.Set(float64(tracked))
}

// SyncFailed records a presence sync that could not reach LiveKit.
func (Recorder) SyncFailed() {
	RoomSyncErrors.Inc()
}

// RecordStateTransition records a voice session state change.
func RecordStateTransition(fromState, toState string) {
	ConnectorTransitions.WithLabelValues(fromState, toState).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
