package sqlrecord

import "log/slog"

// Option configures Query and Insert.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving field mapping anomalies.
// The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
