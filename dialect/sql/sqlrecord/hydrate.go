package sqlrecord

import (
	"context"
	"fmt"
	"reflect"

	"github.com/syssam/stormlin/schema"
)

// hydrate assigns the raw column values of one row to the fields of rv.
// Every failure is confined to the column it happened on.
func hydrate(ctx context.Context, cfg *config, typ *schema.Type, rv reflect.Value, columns []string, raw []any) {
	for i, column := range columns {
		f, ok := typ.Lookup(column)
		if !ok {
			cfg.logger.WarnContext(ctx, "ignoring column without mapping",
				"column", column, "type", typ.Name, "value", raw[i])
			continue
		}
		if !f.Settable {
			cfg.logger.WarnContext(ctx, "ignoring read-only field",
				"column", column, "field", f.Name, "type", typ.Name)
			continue
		}
		fv := f.Value(rv, true)
		if !fv.IsValid() {
			cfg.logger.WarnContext(ctx, "ignoring unreachable field",
				"column", column, "field", f.Name, "type", typ.Name)
			continue
		}
		if err := schema.Assign(fv, raw[i]); err != nil {
			cfg.logger.WarnContext(ctx, "couldn't set field",
				"column", column, "field", f.Name, "type", typ.Name,
				"value", raw[i], "value_type", fmt.Sprintf("%T", raw[i]), "error", err)
		}
	}
}
