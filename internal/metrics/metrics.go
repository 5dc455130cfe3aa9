package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// NotesTotal is the number of stored notes as of the last stats refresh.
	NotesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notehub_notes_total",
			Help: "Number of notes in the store",
		},
	)

	// UsersTotal is the number of registered users as of the last stats refresh.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notehub_users_total",
			Help: "Number of registered users",
		},
	)

	// NoteWritesTotal counts successful note mutations by action (create, update, delete).
	NoteWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notehub_note_writes_total",
			Help: "Total number of successful note writes by action",
		},
		[]string{"action"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, NotesTotal, UsersTotal, NoteWritesTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /notes/123 -> /notes/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetStoreTotals publishes the latest note and user counts.
func SetStoreTotals(notes, users int) {
	NotesTotal.Set(float64(notes))
	UsersTotal.Set(float64(users))
}

// IncNoteWrites counts one successful note write.
func IncNoteWrites(action string) {
	NoteWritesTotal.WithLabelValues(action).Inc()
}
