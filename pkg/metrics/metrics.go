// Package metrics метрики Prometheus для HTTP, БД и планировщика слотов
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер всех метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal   *prometheus.CounterVec
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionsOpen *prometheus.GaugeVec
	DBConnectionsIdle *prometheus.GaugeVec

	// Планировщик слотов
	TimeslotsComputedTotal  *prometheus.CounterVec
	TimeslotsPerRequest     *prometheus.HistogramVec
	TimeslotCacheHitsTotal  *prometheus.CounterVec
	TimeslotCacheMissTotal  *prometheus.CounterVec
	BookingConflictsTotal   *prometheus.CounterVec
}

// New создает и регистрирует метрики в дефолтном регистре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"state"}),

		TimeslotsComputedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "timeslots_computed_total",
			Help:        "Total number of timeslot computations",
			ConstLabels: constLabels,
		}, []string{"status"}),

		TimeslotsPerRequest: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "timeslots_per_request",
			Help:        "Number of timeslots returned per computation",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 200, 300},
		}, []string{"strategy"}),

		TimeslotCacheHitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "timeslot_cache_hits_total",
			Help:        "Total number of timeslot cache hits",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		TimeslotCacheMissTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "timeslot_cache_misses_total",
			Help:        "Total number of timeslot cache misses",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		BookingConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Total number of booking conflicts detected before commit",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}
}
