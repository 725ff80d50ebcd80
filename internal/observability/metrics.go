package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters, histograms, and gauges for decoding runs.
type Metrics struct {
	DocumentsDecoded  prometheus.Counter
	DecodeErrors      *prometheus.CounterVec // labels: kind={schema_mismatch,label_mismatch,...}
	RecordsDecoded    prometheus.Counter
	DecodeDuration    prometheus.Histogram
	DocumentsLoaded   prometheus.Counter
	LoadErrors        prometheus.Counter
	RoundTripMismatch prometheus.Counter
	PipelineRunning   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DocumentsDecoded,
		m.DecodeErrors,
		m.RecordsDecoded,
		m.DecodeDuration,
		m.DocumentsLoaded,
		m.LoadErrors,
		m.RoundTripMismatch,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DocumentsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "documents_decoded_total",
			Help:      "Total EPW documents decoded successfully.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "decode_errors_total",
			Help:      "Decode failures by error kind.",
		}, []string{"kind"}),
		RecordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "records_decoded_total",
			Help:      "Total hourly data records decoded.",
		}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "epw",
			Name:      "decode_duration_seconds",
			Help:      "Duration of reading and decoding one EPW file.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		DocumentsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "documents_loaded_total",
			Help:      "Total documents written to the configured sink.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "load_errors_total",
			Help:      "Total sink write failures.",
		}),
		RoundTripMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "roundtrip_mismatches_total",
			Help:      "Documents whose re-encoded lines differ from the input.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "epw",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
	}
}

// WriteTextfile exports the default registry in the node exporter textfile
// collector format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
