package snappy

import (
	"github.com/sirupsen/logrus"

	"github.com/gosnappy/gosnappy/internal/metrics"
)

// streamOptions holds the configuration shared by Writer and Reader. It is
// built from the functional Options passed to NewWriter, NewBufferedWriter
// and NewReader.
type streamOptions struct {
	metrics *metrics.StreamMetrics
	logger  *logrus.Logger
}

func newStreamOptions(opts []Option) streamOptions {
	o := streamOptions{logger: logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Writer or Reader at construction time.
type Option func(*streamOptions)

// WithMetrics attaches Prometheus instrumentation to a stream. Register m
// with a prometheus.Registerer separately; the stream only updates it.
func WithMetrics(m *metrics.StreamMetrics) Option {
	return func(o *streamOptions) { o.metrics = m }
}

// WithLogger records l in place of the package-level default logger (see
// SetLogger) for a single stream instance. Writer and Reader emit no log
// output, so the recorded logger is not used by them.
func WithLogger(l *logrus.Logger) Option {
	return func(o *streamOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
