package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects the metrics of a single run on its own registry. The
// tool exits after one run, so metrics are written to a node-exporter
// textfile instead of being scraped.
type Recorder struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	records        prometheus.Counter
	decoded        prometheus.Counter
	decodeFailures prometheus.Counter
	lastRun        prometheus.Gauge
}

// New creates a Recorder with all hive metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hive_requests_total",
				Help: "Total number of Hive API requests made (by endpoint and status).",
			},
			[]string{"endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hive_request_duration_seconds",
				Help:    "Duration of Hive API requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms → ~20s
			},
			[]string{"endpoint"},
		),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hive_records_total",
			Help: "Number of message records returned by the Hive API.",
		}),
		decoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hive_records_decoded_total",
			Help: "Number of records whose data field was decoded.",
		}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hive_decode_failures_total",
			Help: "Number of records whose data field failed to decode.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hive_last_run_timestamp_seconds",
			Help: "Unix time the metrics file was last written.",
		}),
	}
	r.registry.MustRegister(r.requests, r.duration, r.records, r.decoded, r.decodeFailures, r.lastRun)
	return r
}

// ObserveRequest records one API request.
func (r *Recorder) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.requests.WithLabelValues(endpoint, label).Inc()
	r.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// AddRecords counts records returned by the API.
func (r *Recorder) AddRecords(n int) { r.records.Add(float64(n)) }

// IncDecoded counts a successfully decoded data field.
func (r *Recorder) IncDecoded() { r.decoded.Inc() }

// IncDecodeFailure counts a data field that could not be decoded.
func (r *Recorder) IncDecodeFailure() { r.decodeFailures.Inc() }

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	r.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, r.registry)
}
