package schema

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	scannerType = reflect.TypeFor[sql.Scanner]()
	timeType    = reflect.TypeFor[time.Time]()
)

// timeLayouts are tried in order when a text value is assigned to a
// time.Time field.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Assign stores the driver value raw in dst following the coercion table:
//
//	nil                 any destination, set to its zero value
//	integers            int*, uint* (overflow checked), float*, bool (0 or 1)
//	float64             float* (overflow checked), int* when integral
//	[]byte, string      string kinds, []byte, and numbers, bools or times parsed from text
//	bool                bool
//	time.Time           time.Time
//
// Destinations implementing sql.Scanner receive raw as is. Pointer
// destinations are allocated. Other assignable or same-kind convertible
// values are stored directly. Anything else fails with ErrIncompatible
// and leaves dst unchanged.
func Assign(dst reflect.Value, raw any) error {
	if !dst.CanSet() {
		return ErrReadOnly
	}
	if reflect.PointerTo(dst.Type()).Implements(scannerType) {
		tmp := reflect.New(dst.Type())
		if err := tmp.Interface().(sql.Scanner).Scan(raw); err != nil {
			return fmt.Errorf("%w: %v", ErrIncompatible, err)
		}
		dst.Set(tmp.Elem())
		return nil
	}
	if raw == nil {
		dst.SetZero()
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := Assign(elem.Elem(), raw); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	src := reflect.ValueOf(raw)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if err := coerce(dst, raw); err != nil {
		return fmt.Errorf("%w: cannot assign %T to %s: %v", ErrIncompatible, raw, dst.Type(), err)
	}
	return nil
}

func coerce(dst reflect.Value, raw any) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(raw)
		if err != nil {
			return err
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("%d overflows", n)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := toUint64(raw)
		if err != nil {
			return err
		}
		if dst.OverflowUint(n) {
			return fmt.Errorf("%d overflows", n)
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(raw)
		if err != nil {
			return err
		}
		if dst.OverflowFloat(f) {
			return fmt.Errorf("%g overflows", f)
		}
		dst.SetFloat(f)
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.String:
		switch v := raw.(type) {
		case string:
			dst.SetString(v)
		case []byte:
			dst.SetString(string(v))
		default:
			return errUnsupported
		}
	case reflect.Slice:
		if dst.Type().Elem().Kind() != reflect.Uint8 {
			return errUnsupported
		}
		var b []byte
		switch v := raw.(type) {
		case string:
			b = []byte(v)
		case []byte:
			b = append([]byte(nil), v...)
		default:
			return errUnsupported
		}
		dst.Set(reflect.ValueOf(b).Convert(dst.Type()))
	case reflect.Struct:
		if dst.Type() != timeType {
			return convert(dst, raw)
		}
		t, err := toTime(raw)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
	default:
		return convert(dst, raw)
	}
	return nil
}

var errUnsupported = errors.New("unsupported conversion")

// convert handles named types sharing the kind of the driver value.
func convert(dst reflect.Value, raw any) error {
	src := reflect.ValueOf(raw)
	if src.Kind() != dst.Kind() || !src.Type().ConvertibleTo(dst.Type()) {
		return errUnsupported
	}
	dst.Set(src.Convert(dst.Type()))
	return nil
}

func toInt64(raw any) (int64, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows", rv.Uint())
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// float64(math.MaxInt64) rounds up to 2^63, so the bound is exclusive.
		if f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
			return 0, fmt.Errorf("%g is not integral", f)
		}
		return int64(f), nil
	}
	if s, ok := text(raw); ok {
		return strconv.ParseInt(s, 10, 64)
	}
	return 0, errUnsupported
}

func toUint64(raw any) (uint64, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, fmt.Errorf("%d is negative", rv.Int())
		}
		return uint64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	}
	if s, ok := text(raw); ok {
		return strconv.ParseUint(s, 10, 64)
	}
	return 0, errUnsupported
}

func toFloat64(raw any) (float64, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	if s, ok := text(raw); ok {
		return strconv.ParseFloat(s, 64)
	}
	return 0, errUnsupported
}

func toBool(raw any) (bool, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Int() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("%d is not a boolean", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch rv.Uint() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("%d is not a boolean", rv.Uint())
	}
	if s, ok := text(raw); ok {
		return strconv.ParseBool(s)
	}
	return false, errUnsupported
}

func toTime(raw any) (time.Time, error) {
	s, ok := text(raw)
	if !ok {
		return time.Time{}, errUnsupported
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}

func text(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case []byte:
		return strings.TrimSpace(string(v)), true
	}
	return "", false
}
