package schema

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches record type metadata. The zero value is not usable;
// create one with NewRegistry.
type Registry struct {
	types sync.Map // reflect.Type -> *Type
	group singleflight.Group
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Of returns the metadata of t from the default registry.
func Of(t reflect.Type) (*Type, error) {
	return defaultRegistry.Of(t)
}

// Load returns the metadata of the dynamic type of record.
func Load(record any) (*Type, error) {
	return defaultRegistry.Load(record)
}

// Load returns the metadata of the dynamic type of record.
func (r *Registry) Load(record any) (*Type, error) {
	if record == nil {
		return nil, ErrNotStruct
	}
	return r.Of(reflect.TypeOf(record))
}

// Of returns the metadata of t, building it on first use. Pointer types
// resolve to the struct they point to. Concurrent first calls for the same
// type build the metadata once.
func (r *Registry) Of(t reflect.Type) (*Type, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, ErrNotStruct
	}
	if v, ok := r.types.Load(t); ok {
		return v.(*Type), nil
	}
	v, err, _ := r.group.Do(t.PkgPath()+"|"+t.String(), func() (any, error) {
		typ, err := newType(t)
		if err != nil {
			return nil, err
		}
		r.types.Store(t, typ)
		return typ, nil
	})
	if err != nil {
		return nil, err
	}
	typ := v.(*Type)
	// Distinct unnamed types may share a key; fall back to a direct build.
	if typ.rtype != t {
		if typ, err = newType(t); err != nil {
			return nil, err
		}
		r.types.Store(t, typ)
	}
	return typ, nil
}
