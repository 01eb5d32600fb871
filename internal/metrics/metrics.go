// Package metrics exposes the optional Prometheus instrumentation for the
// framed stream layer. It mirrors the metrics layering moby-moby and
// syncthing-syncthing build on top of github.com/prometheus/client_golang:
// a small struct of pre-registered collectors that calling code updates
// inline, rather than a global registry the codec reaches for implicitly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// StreamMetrics holds the counters and histogram a Writer or Reader updates
// as it processes chunks. The zero value is not usable; construct with
// NewStreamMetrics and register the result with a prometheus.Registerer.
type StreamMetrics struct {
	ChunksWritten   *prometheus.CounterVec
	BytesIn         prometheus.Counter
	BytesOut        prometheus.Counter
	ChecksumFailure prometheus.Counter
	CompressionRate prometheus.Histogram
}

// NewStreamMetrics builds a StreamMetrics with the given namespace/subsystem
// prefix, e.g. NewStreamMetrics("gosnappy", "stream").
func NewStreamMetrics(namespace, subsystem string) *StreamMetrics {
	return &StreamMetrics{
		ChunksWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunks_total",
			Help:      "Number of framed-stream chunks processed, by chunk type.",
		}, []string{"type"}),
		BytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_in_total",
			Help:      "Uncompressed bytes observed by the stream layer.",
		}),
		BytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_out_total",
			Help:      "Bytes written to or read from the underlying transport.",
		}),
		ChecksumFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checksum_failures_total",
			Help:      "CRC32C mismatches detected while decompressing chunks.",
		}),
		CompressionRate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compression_ratio",
			Help:      "compressed_len / uncompressed_len for each emitted chunk.",
			Buckets:   []float64{0.1, 0.25, 0.4, 0.55, 0.7, 0.85, 1.0},
		}),
	}
}

// MustRegister registers every collector in m with r, panicking on a
// duplicate-registration error the way prometheus's own MustRegister does.
func (m *StreamMetrics) MustRegister(r prometheus.Registerer) {
	r.MustRegister(m.ChunksWritten, m.BytesIn, m.BytesOut, m.ChecksumFailure, m.CompressionRate)
}
