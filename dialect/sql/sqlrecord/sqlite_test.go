package sqlrecord_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
)

func openSQLite(t *testing.T) *sql.Driver {
	t.Helper()
	drv, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection of a :memory: database is a new database.
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })
	err = drv.Exec(context.Background(), `CREATE TABLE cycles (
		number INTEGER PRIMARY KEY AUTOINCREMENT,
		start INTEGER CHECK (start > 0),
		german_title TEXT NOT NULL,
		short_title TEXT
	)`, []any{}, nil)
	require.NoError(t, err)
	return drv
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)

	start, title := 100, "Die Meister der Insel"
	saved := &Cycle{Start: &start, GermanTitle: &title, ShortTitle: "MdI"}
	res, err := sqlrecord.Insert(ctx, drv, saved)
	require.NoError(t, err)
	require.True(t, res.Success, "failure: %v", res.Failure)
	assert.Equal(t, "1 affected rows", res.Message)
	assert.Equal(t, 1, saved.Number)

	cycles, err := sqlrecord.Query(ctx, drv, sql.Select("*").From("cycles").Where("short_title").Eq("MdI").String(),
		func() *Cycle { return &Cycle{} })
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, saved, cycles[0])
}

func TestSQLiteConstraintFailures(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)

	title := "Die Dritte Macht"
	res, err := sqlrecord.Insert(ctx, drv, &Cycle{Number: 1, GermanTitle: &title})
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = sqlrecord.Insert(ctx, drv, &Cycle{Number: 1, GermanTitle: &title})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, sqlrecord.IsUniqueConstraintError(res.Failure), "%v", res.Failure)

	res, err = sqlrecord.Insert(ctx, drv, &Cycle{ShortTitle: "x"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, sqlrecord.IsNotNullConstraintError(res.Failure), "%v", res.Failure)

	negative := -1
	res, err = sqlrecord.Insert(ctx, drv, &Cycle{Start: &negative, GermanTitle: &title})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, sqlrecord.IsCheckConstraintError(res.Failure), "%v", res.Failure)
}
