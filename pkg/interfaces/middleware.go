package interfaces

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID keeps an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("http request",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// Metrics holds the HTTP and listing collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	eventsListed prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventify",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventify",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		eventsListed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventify",
			Name:      "events_listed",
			Help:      "Number of events returned per listing",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.eventsListed)
	return m
}

// Instrument attaches Middleware to router. Route middleware only runs for
// matched routes, so the not-found and method-not-allowed handlers are
// wrapped too and counted under the "unmatched" route.
func (m *Metrics) Instrument(router *mux.Router) {
	router.Use(m.Middleware)

	notFound := router.NotFoundHandler
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	router.NotFoundHandler = m.Middleware(notFound)

	notAllowed := router.MethodNotAllowedHandler
	if notAllowed == nil {
		notAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
	}
	router.MethodNotAllowedHandler = m.Middleware(notAllowed)
}

// Middleware records request counts and latency labelled by the matched
// route template, so path parameters do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveListed records the size of a listing response. Safe on a nil
// receiver.
func (m *Metrics) ObserveListed(n int) {
	if m == nil {
		return
	}
	m.eventsListed.Observe(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
