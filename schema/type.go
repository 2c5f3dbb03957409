package schema

import (
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/text/cases"
)

// Sentinel errors of the column resolver.
var (
	// ErrNoTable is returned when a record type does not declare its table.
	ErrNoTable = errors.New("schema: record type has no table name")
	// ErrNotStruct is returned for record values that are not structs.
	ErrNotStruct = errors.New("schema: record must be a struct or a pointer to a struct")
	// ErrReadOnly is returned when a readonly field is set or written.
	ErrReadOnly = errors.New("schema: field is not settable")
	// ErrIncompatible is returned when a driver value cannot be assigned to a field.
	ErrIncompatible = errors.New("schema: incompatible value")
)

// Tabler is implemented by record types to declare their table.
type Tabler interface {
	TableName() string
}

// Type is the derived metadata of a record type.
type Type struct {
	// Name is the Go type name, used in messages.
	Name string
	// Table is the declared table name, or empty.
	Table string
	// Fields lists the record fields in declaration order.
	Fields []*Field

	rtype   reflect.Type
	columns map[string]*Field
	folded  map[string]*Field
}

// TableName returns the declared table name.
// It fails with ErrNoTable when the type does not implement Tabler.
func (t *Type) TableName() (string, error) {
	if t.Table == "" {
		return "", fmt.Errorf("%w: %s must implement TableName() string", ErrNoTable, t.Name)
	}
	return t.Table, nil
}

// Lookup returns the field mapped to column. An exact match wins over a
// case-folded one, so drivers reporting "NUMBER" still find "number".
func (t *Type) Lookup(column string) (*Field, bool) {
	if f, ok := t.columns[column]; ok {
		return f, true
	}
	f, ok := t.folded[fold(column)]
	return f, ok
}

// Settable returns the mutable fields keyed by column name.
func (t *Type) Settable() map[string]*Field {
	m := make(map[string]*Field, len(t.Fields))
	for _, f := range t.Fields {
		if f.Settable && t.columns[f.Column] == f {
			m[f.Column] = f
		}
	}
	return m
}

// PK returns the key field, if any.
func (t *Type) PK() (*Field, bool) {
	for _, f := range t.Fields {
		if f.PK {
			return f, true
		}
	}
	return nil, false
}

// Indirect returns the addressable struct value behind the record v.
func (t *Type) Indirect(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrNotStruct, t.Name)
		}
		rv = rv.Elem()
	}
	if rv.Type() != t.rtype {
		return reflect.Value{}, fmt.Errorf("%w: got %s, want %s", ErrNotStruct, rv.Type(), t.Name)
	}
	return rv, nil
}

// newType builds the metadata of the struct type rt. The table name is
// read from a zero value of rt or *rt, whichever implements Tabler.
func newType(rt reflect.Type) (*Type, error) {
	st := rt
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, rt)
	}
	t := &Type{
		Name:    st.String(),
		rtype:   st,
		columns: make(map[string]*Field),
		folded:  make(map[string]*Field),
	}
	t.Table = tableOf(st)
	walk(st, nil, t)
	return t, nil
}

func tableOf(st reflect.Type) string {
	if tb, ok := reflect.New(st).Interface().(Tabler); ok {
		return tb.TableName()
	}
	if tb, ok := reflect.New(st).Elem().Interface().(Tabler); ok {
		return tb.TableName()
	}
	return ""
}

func walk(st reflect.Type, base []int, t *Type) {
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag := sf.Tag.Get(TagName)
		opts := parseTag(tag)
		if opts.omit {
			continue
		}
		index := append(append([]int(nil), base...), i)
		if sf.Anonymous && opts.name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walk(ft, index, t)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		f := &Field{
			Name:      sf.Name,
			Column:    ColumnName(sf),
			Index:     index,
			Type:      sf.Type,
			Settable:  !opts.readonly,
			OmitEmpty: opts.omitEmpty,
			PK:        opts.pk,
		}
		t.Fields = append(t.Fields, f)
		// The first field declared for a column owns it; Validate reports the rest.
		if _, dup := t.columns[f.Column]; dup {
			continue
		}
		t.columns[f.Column] = f
		if k := fold(f.Column); t.folded[k] == nil {
			t.folded[k] = f
		}
	}
}

// fold returns the case-folded form of a column name. A Caser carries
// state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
