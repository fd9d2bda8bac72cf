package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Station outcomes recorded in Metrics.StationsProcessed.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a run.
type Metrics struct {
	StationsProcessed *prometheus.CounterVec // labels: outcome={success,empty,failed}
	StationErrors     *prometheus.CounterVec // labels: kind={metadata_not_found,fetch,persistence,other}
	HourlyRows        prometheus.Counter
	InvalidDays       prometheus.Counter
	DailyRecords      prometheus.Counter
	RecordsPublished  prometheus.Counter
	PipelineRunning   prometheus.Gauge
	LastRunTimestamp  prometheus.Gauge

	StationDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Gatherer returns the registry the metrics are registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		StationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "stations_processed_total",
			Help:      "Stations processed by outcome.",
		}, []string{"outcome"}),
		StationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "station_errors_total",
			Help:      "Station failures by error kind.",
		}, []string{"kind"}),
		HourlyRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "hourly_rows_total",
			Help:      "Hourly rows normalized from raw tables.",
		}),
		InvalidDays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "invalid_days_total",
			Help:      "Calendar days blanked for insufficient hourly coverage.",
		}),
		DailyRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "daily_records_total",
			Help:      "Daily records merged into the series.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inmet_etl",
			Name:      "records_published_total",
			Help:      "Daily records published to Kafka.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inmet_etl",
			Name:      "pipeline_running",
			Help:      "1 while the run is active, 0 when finished.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inmet_etl",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		StationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inmet_etl",
			Name:      "station_duration_seconds",
			Help:      "Duration of one station's fetch-transform-merge cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.StationsProcessed,
		m.StationErrors,
		m.HourlyRows,
		m.InvalidDays,
		m.DailyRecords,
		m.RecordsPublished,
		m.PipelineRunning,
		m.LastRunTimestamp,
		m.StationDuration,
	}
}
