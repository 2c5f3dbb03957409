package schema

import (
	"database/sql/driver"
	"reflect"
	"strings"
)

// TagName is the struct tag holding column overrides.
const TagName = "db"

// Field describes one record field and the column it maps to.
type Field struct {
	// Name is the Go field name.
	Name string
	// Column is the database column name.
	Column string
	// Index is the index path for reflect.Value.FieldByIndex.
	Index []int
	// Type is the Go type of the field.
	Type reflect.Type
	// Settable is false for readonly fields.
	Settable bool
	// OmitEmpty treats the zero value as absent on write.
	OmitEmpty bool
	// PK marks the key column.
	PK bool
}

// tagOptions holds the parsed db tag.
type tagOptions struct {
	name      string
	omit      bool
	omitEmpty bool
	readonly  bool
	pk        bool
}

// parseTag supports "-", "name", "name,opt,...", and ",opt".
func parseTag(tag string) tagOptions {
	if tag == "-" {
		return tagOptions{omit: true}
	}
	var opts tagOptions
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if i == 0 {
			opts.name = part
			continue
		}
		switch part {
		case "omitempty":
			opts.omitEmpty = true
		case "readonly":
			opts.readonly = true
		case "pk":
			opts.pk = true
		}
	}
	return opts
}

// ColumnName returns the column a struct field maps to: the db tag
// override when present, the field name otherwise.
func ColumnName(sf reflect.StructField) string {
	if name := parseTag(sf.Tag.Get(TagName)).name; name != "" {
		return name
	}
	return sf.Name
}

// Value returns the field of the record struct v, allocating nil embedded
// pointers on the way when alloc is set. It returns an invalid Value if a
// nil embedded pointer is met and alloc is false.
func (f *Field) Value(v reflect.Value, alloc bool) reflect.Value {
	for i, x := range f.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// Absent reports whether v holds no value for writing: a nil pointer,
// interface, map or slice, a driver.Valuer returning nil, or a zero value
// when the field is omitempty.
func (f *Field) Absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return true
		}
	}
	if v.CanInterface() {
		if dv, ok := v.Interface().(driver.Valuer); ok {
			if val, err := dv.Value(); err == nil && val == nil {
				return true
			}
		}
	}
	return f.OmitEmpty && v.IsZero()
}
