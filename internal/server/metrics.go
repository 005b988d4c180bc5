package server

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/loadtimer/internal/stats"
)

const namespace = "loadtimer"

var entityLabels = []string{"entity", "pid", "tid"}

// Metrics holds the Prometheus collectors of one run. Each Metrics has its
// own registry so several can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	mu         sync.Mutex
	cpuUsage   *prometheus.GaugeVec
	cpuStdDev  *prometheus.GaugeVec
	totalTicks *prometheus.GaugeVec
	userTicks  *prometheus.GaugeVec
	sysTicks   *prometheus.GaugeVec
	samples    *prometheus.GaugeVec
	cycles     prometheus.Gauge
	retired    prometheus.Gauge

	activeRequests prometheus.Gauge
	requestsTotal  prometheus.Counter
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, entityLabels)
	}
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		cpuUsage:   gauge("cpu_usage_percent", "Mean CPU usage over the retained samples, in percent of one core."),
		cpuStdDev:  gauge("cpu_usage_stddev_percent", "Standard deviation of the per-interval CPU usage."),
		totalTicks: gauge("ticks_mean", "Mean user+system ticks per interval."),
		userTicks:  gauge("user_ticks_mean", "Mean user ticks per interval."),
		sysTicks:   gauge("system_ticks_mean", "Mean system ticks per interval."),
		samples:    gauge("samples", "Number of retained interval samples."),
		cycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cycles", Help: "Completed sampling cycles.",
		}),
		retired: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "threads_retired", Help: "Thread buffers dropped after their thread exited.",
		}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_requests", Help: "In-flight scrape requests.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "requests_total", Help: "Scrape requests served.",
		}),
	}
	m.registry.MustRegister(
		m.cpuUsage, m.cpuStdDev, m.totalTicks, m.userTicks, m.sysTicks, m.samples,
		m.cycles, m.retired, m.activeRequests, m.requestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Observe replaces the published statistics with metrics. Entities that are
// no longer present, such as retired threads, disappear from the output.
func (m *Metrics) Observe(metrics []stats.ProcMetrics, cycles, retired int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range []*prometheus.GaugeVec{m.cpuUsage, m.cpuStdDev, m.totalTicks, m.userTicks, m.sysTicks, m.samples} {
		v.Reset()
	}
	for _, pm := range metrics {
		m.observeEntity(pm)
	}
	m.cycles.Set(float64(cycles))
	m.retired.Set(float64(retired))
}

// observeEntity publishes one entity. Callers hold m.mu.
func (m *Metrics) observeEntity(pm stats.ProcMetrics) {
	labels := prometheus.Labels{
		"entity": pm.Name,
		"pid":    strconv.Itoa(pm.PID),
		"tid":    strconv.Itoa(pm.TID),
	}
	m.samples.With(labels).Set(float64(pm.Samples))
	if pm.Samples == 0 {
		return
	}
	m.cpuUsage.With(labels).Set(pm.CPUUsage.Mean)
	m.cpuStdDev.With(labels).Set(pm.CPUUsage.StdDev)
	m.totalTicks.With(labels).Set(pm.Total.Mean)
	m.userTicks.With(labels).Set(pm.User.Mean)
	m.sysTicks.With(labels).Set(pm.System.Mean)
}

// IncrementActiveRequests marks a scrape as started.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
	m.requestsTotal.Inc()
}

// DecrementActiveRequests marks a scrape as finished.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// WritePrometheus serves the registry in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
