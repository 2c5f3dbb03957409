package stormlin

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
)

// Shape is the number of records a Statement produces.
type Shape uint8

const (
	// Many statements return every matching record.
	Many Shape = iota + 1
	// One statements return exactly one record.
	One
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Many:
		return "many"
	case One:
		return "one"
	default:
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
}

var (
	// ErrPlaceholder is returned by Declare for a template whose placeholders
	// are not numbered {0} to {n-1}.
	ErrPlaceholder = errors.New("stormlin: invalid placeholder")

	// ErrArity is returned when a Statement is called with the wrong number
	// of arguments.
	ErrArity = errors.New("stormlin: wrong number of arguments")

	// ErrShape is returned when a Statement is executed through the method
	// of the other shape.
	ErrShape = errors.New("stormlin: statement shape mismatch")
)

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Statement is a declared query template. Placeholders {0}, {1}... are
// replaced by the call arguments encoded as SQL literals.
//
//	getBook, err := stormlin.Declare(orm, "SELECT * FROM hefte WHERE number = {0}", NewBook, stormlin.One)
//	book, err := getBook.One(ctx, 2000)
//
// Unlike a Runner, a Statement can be executed any number of times.
type Statement[T any] struct {
	orm      *Orm
	template string
	factory  func() T
	shape    Shape
	arity    int
}

// Declare validates template and returns the Statement executing it.
func Declare[T any](o *Orm, template string, factory func() T, shape Shape) (*Statement[T], error) {
	entity := typeLabel(reflect.TypeFor[T]())
	if factory == nil {
		return nil, wrap(entity, "declare", sqlrecord.ErrNilFactory)
	}
	if shape != Many && shape != One {
		return nil, &ConfigError{Op: "declare", Err: fmt.Errorf("%w: %s", ErrShape, shape)}
	}
	arity, err := arityOf(template)
	if err != nil {
		return nil, &ConfigError{Op: "declare", Err: err}
	}
	return &Statement[T]{orm: o, template: template, factory: factory, shape: shape, arity: arity}, nil
}

// arityOf returns the number of distinct placeholders in template and
// checks they are numbered without gaps.
func arityOf(template string) (int, error) {
	seen := make(map[int]bool)
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		i, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrPlaceholder, m[0])
		}
		seen[i] = true
	}
	for i := range len(seen) {
		if !seen[i] {
			return 0, fmt.Errorf("%w: {%d} missing", ErrPlaceholder, i)
		}
	}
	return len(seen), nil
}

// Template returns the declared template.
func (s *Statement[T]) Template() string { return s.template }

// Shape returns the declared shape.
func (s *Statement[T]) Shape() Shape { return s.shape }

// Bind returns the statement text with args substituted.
func (s *Statement[T]) Bind(args ...any) (string, error) {
	if len(args) != s.arity {
		return "", &ConfigError{Op: "bind", Err: fmt.Errorf("%w: got %d, want %d", ErrArity, len(args), s.arity)}
	}
	return placeholder.ReplaceAllStringFunc(s.template, func(m string) string {
		i, _ := strconv.Atoi(m[1 : len(m)-1])
		return sql.Literal(args[i])
	}), nil
}

// All executes a Many statement.
func (s *Statement[T]) All(ctx context.Context, args ...any) ([]T, error) {
	if s.shape != Many {
		return nil, &ConfigError{Op: "all", Err: fmt.Errorf("%w: statement returns %s", ErrShape, s.shape)}
	}
	return s.exec(ctx, "all", args)
}

// One executes a One statement. Zero or several rows fail with a
// NotSingularError.
func (s *Statement[T]) One(ctx context.Context, args ...any) (T, error) {
	var zero T
	if s.shape != One {
		return zero, &ConfigError{Op: "one", Err: fmt.Errorf("%w: statement returns %s", ErrShape, s.shape)}
	}
	rows, err := s.exec(ctx, "one", args)
	if err != nil {
		return zero, err
	}
	return Unique(rows)
}

func (s *Statement[T]) exec(ctx context.Context, op string, args []any) ([]T, error) {
	query, err := s.Bind(args...)
	if err != nil {
		return nil, err
	}
	rows, err := sqlrecord.Query(ctx, s.orm.driver, query, s.factory, sqlrecord.WithLogger(s.orm.logger))
	if err != nil {
		return nil, wrap(typeLabel(reflect.TypeFor[T]()), op, err)
	}
	return rows, nil
}
