package stormlin

import (
	"log/slog"

	"github.com/syssam/stormlin/dialect/sql"
)

// Option configures an Orm.
type Option func(*Orm)

// WithLogger sets the logger used for field mapping anomalies, debug
// statements and slow queries. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orm) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDebug logs every executed statement at info level.
func WithDebug() Option {
	return func(o *Orm) {
		o.debug = true
	}
}

// WithStats collects query statistics, readable with Orm.Stats. Slow
// queries are logged on the Orm logger unless opts install another hook.
func WithStats(opts ...sql.StatsOption) Option {
	return func(o *Orm) {
		o.stats = true
		o.statsOpts = append(o.statsOpts, opts...)
	}
}
