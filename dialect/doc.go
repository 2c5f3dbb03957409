// Package dialect provides database dialect abstraction for stormlin.
//
// The package defines the connection collaborator consumed by the mapper.
// It does not open, configure or pool connections; see dialect/sql for an
// adapter over database/sql.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # ExecQuerier Interface
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// # Driver Interface
//
//	type Driver interface {
//	    ExecQuerier
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/stormlin/dialect"
//	    "github.com/syssam/stormlin/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.SQLite, "file:perry.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: statement builders, literal encoding and the database/sql adapter
//   - dialect/sql/sqlrecord: row mapping and record insertion
package dialect
