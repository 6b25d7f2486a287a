// Package metrics exposes Prometheus collectors for the extraction
// service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractorVisitsTotal       *prometheus.CounterVec
	extractorRecordsTotal      *prometheus.CounterVec
	extractorPeopleTotal       *prometheus.CounterVec
	extractorLLMCallsTotal     *prometheus.CounterVec
	extractorPageOpenSeconds   *prometheus.HistogramVec
	extractorActiveWorkers     prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		extractorVisitsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_visits_total",
				Help: "Total page visits processed, labeled by stage and outcome.",
			},
			[]string{"label", "outcome"},
		)

		extractorRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_records_total",
				Help: "Total output records emitted, labeled by kind.",
			},
			[]string{"kind"},
		)

		extractorPeopleTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_people_total",
				Help: "Total people extracted, labeled by strategy source.",
			},
			[]string{"source"},
		)

		extractorLLMCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_llm_calls_total",
				Help: "Total LLM fallback calls, labeled by status.",
			},
			[]string{"status"},
		)

		extractorPageOpenSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "extractor_page_open_duration_seconds",
				Help:    "Histogram of page open and render latencies, labeled by site.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"site"},
		)

		extractorActiveWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "extractor_active_workers",
				Help: "Number of workers currently processing a visit.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveVisit increments the visit counter for a stage and outcome.
func ObserveVisit(label, outcome string) {
	extractorVisitsTotal.WithLabelValues(label, outcome).Inc()
}

// ObserveRecord increments the emitted record counter for a kind
// ("person", "email" or "terminal").
func ObserveRecord(kind string) {
	extractorRecordsTotal.WithLabelValues(kind).Inc()
}

// ObservePerson increments the extracted people counter per strategy.
func ObservePerson(source string) {
	extractorPeopleTotal.WithLabelValues(source).Inc()
}

// ObserveLLMCall increments the LLM call counter for a status.
func ObserveLLMCall(status string) {
	extractorLLMCallsTotal.WithLabelValues(status).Inc()
}

// ObservePageOpen records how long a page took to open and render.
func ObservePageOpen(site string, duration time.Duration) {
	extractorPageOpenSeconds.WithLabelValues(SanitizeSite(site)).Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	extractorActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	extractorActiveWorkers.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
