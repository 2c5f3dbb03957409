package sqlrecord

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/syssam/stormlin/dialect"
	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/schema"
)

// ErrEmptyRecord is returned by Insert when the record has no populated
// field. No statement is executed in that case.
var ErrEmptyRecord = errors.New("sqlrecord: record has no populated fields")

// Result is the outcome of a write.
type Result struct {
	// Success reports whether the statement was executed without error.
	Success bool
	// Message is "<n> affected rows" on success, and the failure text otherwise.
	Message string
	// Failure holds the database error of a failed statement.
	Failure error
	// RowsAffected as reported by the driver.
	RowsAffected int64
	// LastInsertID as reported by the driver, when supported.
	LastInsertID int64
}

// Insert writes record as a single INSERT row into its table.
//
// Record shape problems (no table, read-only fields, nothing to write) are
// returned as errors. A statement rejected by the database is not: it is
// reported through Result.Failure, classified as a ConstraintError when the
// driver says so.
//
// A zero pk field of type uuid.UUID or *uuid.UUID is set to a new random
// UUID before the statement is built. Other absent pk fields are read back
// from LastInsertId after the insert.
func Insert(ctx context.Context, drv dialect.ExecQuerier, record any, opts ...Option) (Result, error) {
	cfg := newConfig(opts)
	typ, err := schema.Load(record)
	if err != nil {
		return Result{}, err
	}
	table, err := typ.TableName()
	if err != nil {
		return Result{}, err
	}
	rv, err := typ.Indirect(record)
	if err != nil {
		return Result{}, err
	}
	var (
		pk  *schema.Field
		ins = sql.Insert(table)
	)
	for _, f := range typ.Fields {
		if !f.Settable {
			return Result{}, fmt.Errorf("%w: field %s.%s", schema.ErrReadOnly, typ.Name, f.Name)
		}
		if owner, _ := typ.Lookup(f.Column); owner != f {
			continue
		}
		if id, ok := newKey(f, rv); ok {
			ins.Value(f.Column, id)
			continue
		}
		fv := f.Value(rv, false)
		if f.Absent(fv) {
			if f.PK {
				pk = f
			}
			continue
		}
		ins.Value(f.Column, fv.Interface())
	}
	if ins.Empty() {
		return Result{Message: "no populated fields"}, ErrEmptyRecord
	}
	query, args := ins.Query()
	var res sql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		err = classify(err)
		return Result{Message: err.Error(), Failure: err}, nil
	}
	out := Result{Success: true}
	if res == nil {
		out.Message = "0 affected rows"
		return out, nil
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	out.Message = fmt.Sprintf("%d affected rows", out.RowsAffected)
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
		if pk != nil && rv.CanAddr() {
			if err := schema.Assign(pk.Value(rv, true), id); err != nil {
				cfg.logger.WarnContext(ctx, "couldn't set generated key",
					"column", pk.Column, "field", pk.Name, "type", typ.Name, "value", id, "error", err)
			}
		}
	}
	return out, nil
}

var uuidType = reflect.TypeFor[uuid.UUID]()

// newKey sets a zero uuid.UUID or nil *uuid.UUID key field of rv to a
// random UUID and returns it. Keys of other types are left to the database.
func newKey(f *schema.Field, rv reflect.Value) (uuid.UUID, bool) {
	if !f.PK || !rv.CanAddr() {
		return uuid.Nil, false
	}
	if f.Type != uuidType && f.Type != reflect.PointerTo(uuidType) {
		return uuid.Nil, false
	}
	fv := f.Value(rv, true)
	if !fv.IsValid() || !fv.CanSet() || !fv.IsZero() {
		return uuid.Nil, false
	}
	id := uuid.New()
	if fv.Kind() == reflect.Pointer {
		fv.Set(reflect.ValueOf(&id))
	} else {
		fv.Set(reflect.ValueOf(id))
	}
	return id, true
}
