package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	availabilityQueries   *prometheus.CounterVec
	availabilityDuration  *prometheus.HistogramVec
	availabilityFallbacks *prometheus.CounterVec

	feedConnections     prometheus.Gauge
	feedCallbacks       prometheus.Gauge
	feedNotifications   prometheus.Counter
	feedSubscribeErrors prometheus.Counter

	streamClients prometheus.Gauge
	jobRuns       *prometheus.CounterVec
}

// New регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		availabilityQueries: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_queries_total",
			Help:        "Availability queries by window kind and outcome",
			ConstLabels: labels,
		}, []string{"mode", "outcome"}),
		availabilityDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_query_duration_seconds",
			Help:        "Booking store query duration for availability computation",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"mode"}),
		availabilityFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_optimistic_fallbacks_total",
			Help:        "Availability results replaced by the optimistic default after a query error",
			ConstLabels: labels,
		}, []string{"mode"}),

		feedConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "feed_connections",
			Help:        "Open change feed subscriptions held by the multiplexer",
			ConstLabels: labels,
		}),
		feedCallbacks: f.NewGauge(prometheus.GaugeOpts{
			Name:        "feed_callbacks",
			Help:        "Callbacks registered in the multiplexer",
			ConstLabels: labels,
		}),
		feedNotifications: f.NewCounter(prometheus.CounterOpts{
			Name:        "feed_notifications_delivered_total",
			Help:        "Callback invocations after debounce",
			ConstLabels: labels,
		}),
		feedSubscribeErrors: f.NewCounter(prometheus.CounterOpts{
			Name:        "feed_subscribe_errors_total",
			Help:        "Failed attempts to open a change feed subscription",
			ConstLabels: labels,
		}),

		streamClients: f.NewGauge(prometheus.GaugeOpts{
			Name:        "availability_stream_clients",
			Help:        "Connected availability stream clients",
			ConstLabels: labels,
		}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "job_runs_total",
			Help:        "Background job runs",
			ConstLabels: labels,
		}, []string{"job", "outcome"}),
	}
}

// ObserveHTTPRequest записывает HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveAvailabilityQuery записывает запрос доступности
func (m *Metrics) ObserveAvailabilityQuery(mode, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.availabilityQueries.WithLabelValues(mode, outcome).Inc()
	m.availabilityDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) IncAvailabilityFallback(mode string) {
	if m == nil {
		return
	}
	m.availabilityFallbacks.WithLabelValues(mode).Inc()
}

func (m *Metrics) SetFeedConnections(n int) {
	if m == nil {
		return
	}
	m.feedConnections.Set(float64(n))
}

func (m *Metrics) SetFeedCallbacks(n int) {
	if m == nil {
		return
	}
	m.feedCallbacks.Set(float64(n))
}

func (m *Metrics) AddFeedNotifications(n int) {
	if m == nil {
		return
	}
	m.feedNotifications.Add(float64(n))
}

func (m *Metrics) IncFeedSubscribeErrors() {
	if m == nil {
		return
	}
	m.feedSubscribeErrors.Inc()
}

// StreamOpened / StreamClosed учитывают подключенных SSE клиентов
func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.streamClients.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.streamClients.Dec()
}

// ObserveJobRun записывает запуск фоновой задачи
func (m *Metrics) ObserveJobRun(job string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}
