// Package metrics records resume assistant measurements with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

const namespace = "resume_assistant"

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder implements driven.MetricsRecorder on a dedicated registry.
type Recorder struct {
	registry *prometheus.Registry

	answers        *prometheus.CounterVec
	answerDuration prometheus.Histogram
	indexBuilds    *prometheus.CounterVec
	cacheEvents    *prometheus.CounterVec
	indexedChunks  prometheus.Gauge
	httpRequests   *prometheus.CounterVec
}

// New creates a recorder with its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newRecorder(reg)
}

func newRecorder(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Questions answered, by outcome.",
		}, []string{"outcome"}),
		answerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "Time to answer one question, including embedding and completion.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		indexBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Startup index builds, by cache state.",
		}, []string{"state"}),
		cacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Reasons the persisted cache was not reused.",
		}, []string{"reason"}),
		indexedChunks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_chunks",
			Help:      "Chunks held by the active vector index.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
}

// ObserveAnswer records one answered question.
func (r *Recorder) ObserveAnswer(outcome string, elapsed time.Duration) {
	r.answers.WithLabelValues(outcome).Inc()
	r.answerDuration.Observe(elapsed.Seconds())
}

// IndexReady records a completed startup build.
func (r *Recorder) IndexReady(state domain.CacheState, chunks int) {
	r.indexBuilds.WithLabelValues(state.String()).Inc()
	r.indexedChunks.Set(float64(chunks))
}

// CacheEvent records why the cache was rebuilt.
func (r *Recorder) CacheEvent(reason string) {
	r.cacheEvents.WithLabelValues(reason).Inc()
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(route string, code int) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
