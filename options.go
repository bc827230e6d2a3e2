package dumpfile

import "log/slog"

type options struct {
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures an opened DumpFile.
type Option func(*options)

// WithLogger sets the structured logger decode progress and skip
// reasons are reported to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics attaches decoder metrics, typically created once per
// process with NewMetrics. Without it nothing is counted.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
