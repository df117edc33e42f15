package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kitbuilder587/casedraft/internal/domain"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	DraftsTotal   *prometheus.CounterVec
	DraftDuration *prometheus.HistogramVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal prometheus.Counter
}

// New регистрирует метрики в reg; nil - глобальный registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casedraft_requests_total",
				Help: "Total number of bot requests processed",
			},
			[]string{"type", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "casedraft_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"type"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "casedraft_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		DraftsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casedraft_drafts_total",
				Help: "Draft generation attempts by template and outcome",
			},
			[]string{"template", "outcome"},
		),
		DraftDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "casedraft_draft_duration_seconds",
				Help:    "Draft generation duration in seconds, provider call included",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"template"},
		),

		LLMRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casedraft_llm_requests_total",
				Help: "Total number of LLM API requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "casedraft_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),

		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "casedraft_case_cache_hits_total",
				Help: "Total number of case cache hits",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "casedraft_case_cache_misses_total",
				Help: "Total number of case cache misses",
			},
		),

		RateLimitHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "casedraft_rate_limit_hits_total",
				Help: "Total number of rejected draft requests due to rate limiting",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor отдает метрики конкретного registry (для тестов и нестандартных registry).
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(reqType, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
	m.RequestDuration.WithLabelValues(reqType).Observe(duration.Seconds())
}

// RecordDraft: произвольные template id сводим к "custom", чтобы не плодить серии.
func (m *Metrics) RecordDraft(templateID, outcome string, duration time.Duration) {
	label := "custom"
	if t, ok := domain.LookupTemplate(templateID); ok {
		label = t.ID
	}
	m.DraftsTotal.WithLabelValues(label, outcome).Inc()
	m.DraftDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitsTotal.Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
