package sql

import (
	"slices"
	"strings"
)

// Predicate is one condition of a WHERE clause.
// It is either an *EqualityPredicate or a *RawPredicate.
type Predicate interface {
	// String returns the SQL text of the condition.
	String() string
	predicate()
}

// EqualityPredicate is a structured "<field> = <literal>" condition.
// Literal is already encoded by Literal.
type EqualityPredicate struct {
	Field   string
	Op      string
	Literal string
}

func (p *EqualityPredicate) predicate() {}

// String implements the Predicate interface.
func (p *EqualityPredicate) String() string {
	return p.Field + " " + p.Op + " " + p.Literal
}

// RawPredicate is an opaque boolean expression.
type RawPredicate struct {
	Expr string
}

func (p *RawPredicate) predicate() {}

// String implements the Predicate interface.
func (p *RawPredicate) String() string { return p.Expr }

// Predicate joiners.
const (
	JoinAnd   = " AND "
	JoinComma = ", "
)

// Selector is a builder for the SELECT statement.
//
// Selector is a value type: every method returns a modified copy and never
// mutates the receiver, so a partially built selector can be shared between
// branches of a chain.
//
//	s := sql.Select().From("cycles")
//	a := s.Where("number").Eq(1)
//	b := s.Where("number").Eq(2) // a is unaffected
type Selector struct {
	table  string
	fields []string
	preds  []Predicate
	joiner string
}

// Select returns a new Selector for the given fields.
// It selects "*" when no fields are given.
func Select(fields ...string) Selector {
	s := Selector{fields: []string{"*"}, joiner: JoinAnd}
	if len(fields) > 0 {
		s.fields = slices.Clone(fields)
	}
	return s
}

// From sets the source table of the selector, replacing any previous one.
func (s Selector) From(table string) Selector {
	s.table = table
	return s
}

// Where begins an equality predicate on the given field.
// The predicate is added only when Eq is called.
func (s Selector) Where(field string) *WhereStep {
	return &WhereStep{selector: s, field: field}
}

// WhereAll appends a raw boolean expression to the predicates.
func (s Selector) WhereAll(expr string) Selector {
	return s.with(&RawPredicate{Expr: expr})
}

// Comma returns a copy of the selector that joins its predicates with a
// comma instead of AND. Use it only where byte-exact output of the legacy
// grammar is required; databases reject the comma form.
func (s Selector) Comma() Selector {
	s.joiner = JoinComma
	return s
}

// Table returns the source table, or an empty string.
func (s Selector) Table() string { return s.table }

// Fields returns a copy of the selected fields.
func (s Selector) Fields() []string { return slices.Clone(s.fields) }

// Predicates returns a copy of the predicates in order.
func (s Selector) Predicates() []Predicate { return slices.Clone(s.preds) }

// String returns the statement text.
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(s.fields) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(s.fields, ","))
	}
	if s.table != "" {
		b.WriteString(" FROM ")
		b.WriteString(s.table)
	}
	if len(s.preds) > 0 {
		joiner := s.joiner
		if joiner == "" {
			joiner = JoinAnd
		}
		b.WriteString(" WHERE ")
		for i, p := range s.preds {
			if i > 0 {
				b.WriteString(joiner)
			}
			b.WriteString(p.String())
		}
	}
	return b.String()
}

// Query returns the statement text and its arguments. Values are inlined
// as literals, so the argument list is always empty.
func (s Selector) Query() (string, []any) {
	return s.String(), nil
}

// with returns a copy of s with p appended. The predicate slice is cloned
// so that sibling selectors never share a backing array.
func (s Selector) with(p Predicate) Selector {
	preds := make([]Predicate, len(s.preds), len(s.preds)+1)
	copy(preds, s.preds)
	s.preds = append(preds, p)
	return s
}

// WhereStep is a pending equality predicate returned by Selector.Where.
type WhereStep struct {
	selector Selector
	field    string
}

// Eq commits "field = value" and returns the resulting selector.
// The value is encoded as a literal immediately.
func (w *WhereStep) Eq(v any) Selector {
	return w.selector.with(&EqualityPredicate{
		Field:   w.field,
		Op:      "=",
		Literal: Literal(v),
	})
}

// InsertBuilder is a builder for the INSERT statement.
type InsertBuilder struct {
	table   string
	columns []string
	values  []string
}

// Insert creates a builder for the INSERT INTO statement.
func Insert(table string) *InsertBuilder { return &InsertBuilder{table: table} }

// Set appends a column and its already encoded literal.
func (i *InsertBuilder) Set(column, literal string) *InsertBuilder {
	i.columns = append(i.columns, column)
	i.values = append(i.values, literal)
	return i
}

// Value appends a column and encodes v with Literal.
func (i *InsertBuilder) Value(column string, v any) *InsertBuilder {
	return i.Set(column, Literal(v))
}

// Table returns the target table.
func (i *InsertBuilder) Table() string { return i.table }

// Columns returns the columns added so far.
func (i *InsertBuilder) Columns() []string { return slices.Clone(i.columns) }

// Empty reports whether no column was set.
func (i *InsertBuilder) Empty() bool { return len(i.columns) == 0 }

// String returns the statement text.
func (i *InsertBuilder) String() string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(i.table)
	b.WriteString(" (")
	b.WriteString(strings.Join(i.columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(i.values, ", "))
	b.WriteString(")")
	return b.String()
}

// Query returns the statement text and an empty argument list.
func (i *InsertBuilder) Query() (string, []any) {
	return i.String(), nil
}

// Querier wraps the basic Query method implemented by the builders.
type Querier interface {
	Query() (string, []any)
}

var (
	_ Querier = Selector{}
	_ Querier = (*InsertBuilder)(nil)
)
