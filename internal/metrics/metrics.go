package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	timetablesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetables_rendered_total",
			Help: "Timetables rendered by outcome",
		},
		[]string{"status"},
	)

	blocksPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timetable_blocks_placed_total",
			Help: "Course blocks positioned on a timetable grid",
		},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of requests to the schedule backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "code"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Backend response cache lookups",
		},
		[]string{"result"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "code"},
	)
)

// TrackRender records one render call with its status and placed blocks.
func TrackRender(status string, placed int) {
	timetablesRendered.WithLabelValues(status).Inc()
	blocksPlaced.Add(float64(placed))
}

// TrackBackendRequest records a backend call. code is 0 when no response
// was received.
func TrackBackendRequest(endpoint string, code int, duration time.Duration) {
	backendRequestDuration.WithLabelValues(endpoint, strconv.Itoa(code)).Observe(duration.Seconds())
}

func TrackCacheHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

func TrackCacheMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}

func TrackHTTPRequest(method string, code int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
