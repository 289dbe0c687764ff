package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsCreated        prometheus.Counter
	StageChanges        *prometheus.CounterVec
	Conversions         *prometheus.CounterVec
	ArchiveToggles      *prometheus.CounterVec
	ActivitiesLogged    *prometheus.CounterVec
	AudienceEvaluations prometheus.Counter
	ReportsExported     prometheus.Counter

	// Storage and cache metrics
	StorageErrors *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

// New registers every metric on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests independent of the global registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		LeadsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of pipeline leads created",
		}),
		StageChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_stage_changes_total",
				Help: "Total number of lead stage changes by target stage",
			},
			[]string{"stage"},
		),
		Conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_conversions_total",
				Help: "Total number of customers created",
			},
			[]string{"origin"}, // pipeline, direct
		),
		ArchiveToggles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_archive_toggles_total",
				Help: "Total number of customer archive and unarchive operations",
			},
			[]string{"action"},
		),
		ActivitiesLogged: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activities_logged_total",
				Help: "Total number of activities recorded by kind",
			},
			[]string{"kind"},
		),
		AudienceEvaluations: f.NewCounter(prometheus.CounterOpts{
			Name: "campaign_audience_evaluations_total",
			Help: "Total number of campaign audience evaluations",
		}),
		ReportsExported: f.NewCounter(prometheus.CounterOpts{
			Name: "analytics_reports_exported_total",
			Help: "Total number of pipeline reports exported",
		}),

		StorageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_errors_total",
				Help: "Total number of record store failures by operation",
			},
			[]string{"operation"},
		),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Total number of analytics summary cache hits",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Total number of analytics summary cache misses",
		}),
	}
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordLeadCreated() {
	m.LeadsCreated.Inc()
}

func (m *Metrics) RecordStageChange(stage string) {
	m.StageChanges.WithLabelValues(stage).Inc()
}

// RecordConversion counts a new customer; direct is true for customers that
// skipped the pipeline.
func (m *Metrics) RecordConversion(direct bool) {
	origin := "pipeline"
	if direct {
		origin = "direct"
	}
	m.Conversions.WithLabelValues(origin).Inc()
}

func (m *Metrics) RecordArchiveToggle(archived bool) {
	action := "unarchive"
	if archived {
		action = "archive"
	}
	m.ArchiveToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordActivity(kind string) {
	m.ActivitiesLogged.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordAudienceEvaluation() {
	m.AudienceEvaluations.Inc()
}

func (m *Metrics) RecordReportExported() {
	m.ReportsExported.Inc()
}

func (m *Metrics) RecordStorageError(operation string) {
	m.StorageErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}
