package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devnet-tools/faucet/service/httputil"
)

// HTTPRecorder records served HTTP requests, for use in HTTP middleware.
type HTTPRecorder interface {
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
}

type noopHTTPRecorder struct{}

func (n *noopHTTPRecorder) RecordHTTPRequest(string, int, time.Duration) {}

var NoopHTTPRecorder HTTPRecorder = &noopHTTPRecorder{}

// PromHTTPRecorder records HTTP request metrics to a prometheus factory.
type PromHTTPRecorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ HTTPRecorder = (*PromHTTPRecorder)(nil)

func NewPromHTTPRecorder(factory Factory, ns string) *PromHTTPRecorder {
	return &PromHTTPRecorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Count of served HTTP requests",
		}, []string{"method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Buckets:   prometheus.DefBuckets,
			Help:      "Duration of served HTTP requests",
		}, []string{"method"}),
	}
}

func (p *PromHTTPRecorder) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	p.requests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	p.duration.WithLabelValues(method).Observe(duration.Seconds())
}

// NewHTTPRecordingMiddleware records requests served by the next handler.
func NewHTTPRecordingMiddleware(recorder HTTPRecorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := httputil.NewWrappedResponseWriter(w)
		next.ServeHTTP(ww, r)
		recorder.RecordHTTPRequest(r.Method, ww.StatusCode, time.Since(start))
	})
}
