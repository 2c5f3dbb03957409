// Package sqlrecord maps result rows to records and records to INSERT
// statements.
//
// Query hydrates one record per row. Mapping is tolerant: a column without
// a field, a readonly field, or a value the field cannot hold is logged and
// skipped, and the row is still returned. Insert is strict about the record
// shape and reports database failures in its Result instead of an error.
package sqlrecord
