// Package schema resolves Go record types to database tables and columns.
//
// A record is a struct whose exported fields map to columns. The table name
// comes from the Tabler marker; there is no naming convention fallback.
//
//	type Cycle struct {
//	    Number       *int    `db:"number,pk"`
//	    GermanTitle  *string `db:"german_title"`
//	    EnglishTitle *string `db:"english_title"`
//	    Start        *int
//	}
//
//	func (Cycle) TableName() string { return "cycles" }
//
// # Tags
//
// The db struct tag overrides the column name. The field name is used when
// the tag has no name. Options follow the name:
//
//   - omitempty: a zero value counts as absent when writing
//   - readonly: the mapper never sets the field
//   - pk: the key column, filled from LastInsertId after an insert
//
// db:"-" excludes a field. Unexported fields are never record fields.
// Embedded structs are flattened.
//
// # Metadata
//
// Of derives a Type once per Go type and caches it in a Registry.
// Assign implements the coercion table used when hydrating fields from
// driver values.
package schema
