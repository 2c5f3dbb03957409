// Package stormlin is a small object mapper for SQL databases.
//
// Queries are built with the fluent selector of package dialect/sql and
// their rows are mapped to plain Go structs:
//
//	type Cycle struct {
//		Number      int    `db:"number,pk"`
//		GermanTitle string `db:"german_title"`
//	}
//
//	func (Cycle) TableName() string { return "cycles" }
//
//	orm, err := stormlin.Open("sqlite", "file:perry.db")
//	if err != nil {
//		return err
//	}
//	defer orm.Close()
//
//	cycles, err := stormlin.Into(orm, func() *Cycle { return &Cycle{} }).
//		Query(sql.Select("*").From("cycles").Where("number").Eq(3)).
//		Run(ctx)
//
// Records are written with Save, and reusable templates are declared with
// Declare. Errors are typed: ConfigError for calls that cannot run as
// configured, StructuralError for records that cannot be written,
// NotSingularError for single-record lookups, and QueryError for failed
// reads. Failed writes are reported in Result.Failure.
package stormlin
