package stormlin

import (
	"context"
	"reflect"

	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
	"github.com/syssam/stormlin/schema"
)

type runnerState uint8

const (
	runnerCreated runnerState = iota
	runnerBound
	runnerExecuted
)

// Runner executes one selector and maps its rows to records of type T.
// A Runner runs at most once and is not safe for concurrent use.
//
//	cycles, err := stormlin.Into(orm, func() *Cycle { return &Cycle{} }).
//		Query(sql.Select("*").From("cycles")).
//		Run(ctx)
type Runner[T any] struct {
	orm     *Orm
	factory func() T
	sel     sql.Selector
	state   runnerState
}

// Into starts a query producing records created by factory.
func Into[T any](o *Orm, factory func() T) *Runner[T] {
	return &Runner[T]{orm: o, factory: factory}
}

// Query binds the selector to run. Binding again replaces the previous
// selector; a Runner that already ran ignores it.
func (r *Runner[T]) Query(sel sql.Selector) *Runner[T] {
	if r.state != runnerExecuted {
		r.sel = sel
		r.state = runnerBound
	}
	return r
}

// Run executes the bound selector and returns one record per row. The
// result is empty, never nil, when no row matched.
func (r *Runner[T]) Run(ctx context.Context) ([]T, error) {
	return r.run(ctx, "run")
}

// RunUnique executes the bound selector and returns its single record.
// Zero or several rows fail with a NotSingularError.
func (r *Runner[T]) RunUnique(ctx context.Context) (T, error) {
	rows, err := r.run(ctx, "unique")
	if err != nil {
		var zero T
		return zero, err
	}
	return Unique(rows)
}

func (r *Runner[T]) run(ctx context.Context, op string) ([]T, error) {
	entity := typeLabel(reflect.TypeFor[T]())
	switch r.state {
	case runnerCreated:
		return nil, wrap(entity, op, ErrNoQuery)
	case runnerExecuted:
		return nil, wrap(entity, op, ErrRunnerDone)
	}
	r.state = runnerExecuted
	if r.factory == nil {
		return nil, wrap(entity, op, sqlrecord.ErrNilFactory)
	}
	sel := r.sel
	if sel.Table() == "" {
		typ, err := schema.Of(reflect.TypeFor[T]())
		if err != nil {
			return nil, wrap(entity, op, err)
		}
		table, err := typ.TableName()
		if err != nil {
			return nil, wrap(entity, op, err)
		}
		sel = sel.From(table)
	}
	query, _ := sel.Query()
	rows, err := sqlrecord.Query(ctx, r.orm.driver, query, r.factory, sqlrecord.WithLogger(r.orm.logger))
	if err != nil {
		return nil, wrap(entity, op, err)
	}
	return rows, nil
}

// Unique returns the only element of rows. Zero or several elements fail
// with a NotSingularError carrying the count.
func Unique[T any](rows []T) (T, error) {
	if len(rows) != 1 {
		var zero T
		return zero, NewNotSingularErrorWithCount(typeLabel(reflect.TypeFor[T]()), len(rows))
	}
	return rows[0], nil
}
