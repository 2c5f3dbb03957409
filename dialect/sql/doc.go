// Package sql provides SQL statement building primitives and an adapter over
// database/sql.
//
// # Builder Types
//
//   - Selector: immutable SELECT builder with equality and raw predicates
//   - InsertBuilder: INSERT statement builder over pre-encoded literals
//
// # Selecting
//
//	sql.Select().From("cycles")                         // SELECT * FROM cycles
//	sql.Select("a", "b").From("cycles")                 // SELECT a,b FROM cycles
//	sql.Select().From("cycles").Where("a").Eq(2000)     // SELECT * FROM cycles WHERE a = 2000
//	sql.Select().From("cycles").Where("a").Eq("foo")    // SELECT * FROM cycles WHERE a = 'foo'
//	sql.Select().From("hefte").WhereAll("number <= 652") // raw predicate
//
// Multiple predicates are joined with AND. Selector.Comma switches to the
// legacy comma join for callers that compare output byte by byte.
//
// # Literals
//
// Values are never bound as arguments. Literal encodes them inline: text is
// single-quoted without escaping, other values use their default textual
// form. Do not pass untrusted input.
//
// # Drivers
//
// Driver adapts a *sql.DB to dialect.Driver. StatsDriver and DebugDriver wrap
// any dialect.Driver with statistics and statement logging.
package sql
