package stormlin

import (
	"context"
	"io"
	"log/slog"
	"reflect"

	"github.com/syssam/stormlin/dialect"
	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
)

// Result is the outcome of Save.
type Result = sqlrecord.Result

// Orm runs selectors and saves records over one driver.
// It is safe for concurrent use when the driver is.
type Orm struct {
	driver    dialect.ExecQuerier
	logger    *slog.Logger
	debug     bool
	stats     bool
	statsOpts []sql.StatsOption
	collector *sql.StatsDriver
}

// New returns an Orm executing statements on drv.
func New(drv dialect.ExecQuerier, opts ...Option) *Orm {
	o := &Orm{driver: drv, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.stats {
		statsOpts := append([]sql.StatsOption{sql.WithSlowQueryLog(o.logger)}, o.statsOpts...)
		o.collector = sql.NewStatsDriver(asDriver(o.driver), statsOpts...)
		o.driver = o.collector
	}
	if o.debug {
		o.driver = sql.NewDebugDriver(asDriver(o.driver), sql.DebugWithLogger(o.logger))
	}
	return o
}

// Open opens a database connection with the given database/sql driver
// name and data source, and returns an Orm on top of it.
func Open(driverName, dataSourceName string, opts ...Option) (*Orm, error) {
	drv, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	return New(drv, opts...), nil
}

// Driver returns the driver statements are executed on, including the
// debug and stats wrappers.
func (o *Orm) Driver() dialect.ExecQuerier {
	return o.driver
}

// Stats returns the query statistics, or nil when WithStats was not given.
func (o *Orm) Stats() *sql.QueryStats {
	if o.collector == nil {
		return nil
	}
	return o.collector.QueryStats()
}

// Close closes the underlying driver when it can be closed.
func (o *Orm) Close() error {
	if c, ok := o.driver.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Save inserts record into the table declared by its type.
//
// Configuration and record shape problems are returned as errors. A
// statement rejected by the database is reported in Result.Failure and
// the returned error is nil.
func (o *Orm) Save(ctx context.Context, record any) (Result, error) {
	res, err := sqlrecord.Insert(ctx, o.driver, record, sqlrecord.WithLogger(o.logger))
	return res, wrap(label(record), "save", err)
}

// asDriver lifts a bare ExecQuerier to a dialect.Driver so the statement
// wrappers can decorate it.
func asDriver(drv dialect.ExecQuerier) dialect.Driver {
	if d, ok := drv.(dialect.Driver); ok {
		return d
	}
	return nopDriver{drv}
}

type nopDriver struct {
	dialect.ExecQuerier
}

func (nopDriver) Close() error    { return nil }
func (nopDriver) Dialect() string { return "" }

// label returns the type name of a record for error messages.
func label(v any) string {
	return typeLabel(reflect.TypeOf(v))
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
