package sqlrecord

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/stormlin/dialect"
	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/schema"
)

// ErrNilFactory is returned when Query is called without a record factory.
var ErrNilFactory = errors.New("sqlrecord: nil record factory")

// ErrNotAddressable is returned when the factory returns a struct value
// instead of a pointer, leaving nothing the mapper could populate.
var ErrNotAddressable = errors.New("sqlrecord: factory must return a pointer to a struct")

// Query runs query on drv and returns one record per row. Each record is
// created by factory and populated from the row's columns through the
// schema column mapping.
//
//	cycles, err := sqlrecord.Query(ctx, drv, "SELECT * FROM cycles", func() *Cycle { return &Cycle{} })
//
// A failing statement is returned as an error. Mapping anomalies are logged
// at warn level and never abort the row or the batch.
func Query[T any](ctx context.Context, drv dialect.ExecQuerier, query string, factory func() T, opts ...Option) (_ []T, rerr error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	cfg := newConfig(opts)
	rows := &sql.Rows{}
	if err := drv.Query(ctx, query, []any{}, rows); err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("sqlrecord: close rows: %w", err)
		}
	}()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlrecord: columns: %w", err)
	}
	var (
		typ  *schema.Type
		out  = make([]T, 0)
		raw  = make([]any, len(columns))
		dest = make([]any, len(columns))
	)
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		current := factory()
		if typ == nil {
			if typ, err = schema.Load(current); err != nil {
				return nil, err
			}
		}
		rv, err := typ.Indirect(current)
		if err != nil {
			return nil, err
		}
		if !rv.CanAddr() {
			return nil, fmt.Errorf("%w: got %T", ErrNotAddressable, current)
		}
		clear(raw)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlrecord: scan: %w", err)
		}
		hydrate(ctx, cfg, typ, rv, columns, raw)
		out = append(out, current)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlrecord: rows: %w", err)
	}
	return out, nil
}
