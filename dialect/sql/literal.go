package sql

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"
)

// TimeLayout is the layout used for time.Time literals.
const TimeLayout = "2006-01-02 15:04:05"

// Literal returns the SQL literal text of v.
//
// Text values are wrapped in single quotes; every other value uses its
// default textual representation. Embedded quotes are not escaped, callers
// must not pass untrusted input.
//
//	Literal(2000)   // 2000
//	Literal("foo")  // 'foo'
//	Literal(nil)    // NULL
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(v)
	case []byte:
		if v == nil {
			return "NULL"
		}
		return quote(string(v))
	case time.Time:
		return quote(formatTime(v))
	case driver.Valuer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL"
		}
		dv, err := v.Value()
		if err != nil {
			// Valuer failures fall back to the default representation.
			return fmt.Sprint(v)
		}
		return Literal(dv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "NULL"
		}
		return Literal(rv.Elem().Interface())
	case reflect.String:
		return quote(rv.String())
	}
	return fmt.Sprint(v)
}

func quote(s string) string {
	return "'" + s + "'"
}

func formatTime(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format(TimeLayout)
	}
	return t.Format(TimeLayout + ".999999")
}
