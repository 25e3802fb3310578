package metrics

import "github.com/prometheus/client_golang/prometheus"

// DirectoryMetrics exposes counters/histograms for the public directory.
type DirectoryMetrics struct {
	searchTotal   *prometheus.CounterVec
	searchLatency prometheus.Histogram
	statusTotal   *prometheus.CounterVec
}

func NewDirectoryMetrics(reg prometheus.Registerer) *DirectoryMetrics {
	m := &DirectoryMetrics{
		searchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetfinder",
			Subsystem: "directory",
			Name:      "search_total",
			Help:      "Total directory searches",
		}, []string{"has_query"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vetfinder",
			Subsystem: "directory",
			Name:      "search_latency_seconds",
			Help:      "Latency of directory search requests",
			Buckets:   prometheus.DefBuckets,
		}),
		statusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetfinder",
			Subsystem: "directory",
			Name:      "status_evaluations_total",
			Help:      "Clinic status evaluations by outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchTotal, m.searchLatency, m.statusTotal)
	return m
}

func (m *DirectoryMetrics) ObserveSearch(hasQuery bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if hasQuery {
		label = "true"
	}
	m.searchTotal.WithLabelValues(label).Inc()
	m.searchLatency.Observe(seconds)
}

func (m *DirectoryMetrics) ObserveStatus(status string) {
	if m == nil {
		return
	}
	m.statusTotal.WithLabelValues(status).Inc()
}

// AutosaveMetrics tracks autosave outcomes for admin edit sessions.
type AutosaveMetrics struct {
	saves *prometheus.CounterVec
}

func NewAutosaveMetrics(reg prometheus.Registerer) *AutosaveMetrics {
	m := &AutosaveMetrics{
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vetfinder",
			Subsystem: "autosave",
			Name:      "saves_total",
			Help:      "Autosave attempts by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.saves)
	return m
}

// ObserveSave records one autosave attempt. Result is one of
// "saved", "validation_failed", or "error".
func (m *AutosaveMetrics) ObserveSave(result string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result).Inc()
}
