package sqlrecord_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stormlin/dialect"
	"github.com/syssam/stormlin/dialect/sql"
	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
	"github.com/syssam/stormlin/schema"
)

type Cycle struct {
	Number      int     `db:"number,pk,omitempty"`
	Start       *int    `db:"start"`
	GermanTitle *string `db:"german_title"`
	ShortTitle  string  `db:"short_title,omitempty"`
}

func (Cycle) TableName() string { return "cycles" }

type Untabled struct {
	Name string
}

func TestInsert(t *testing.T) {
	drv, mock := mockDriver(t)
	title := "Die Dritte Macht"
	start := 1
	cycle := &Cycle{Start: &start, GermanTitle: &title}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cycles (start, german_title) VALUES (1, 'Die Dritte Macht')")).
		WillReturnResult(sqlmock.NewResult(12, 1))

	res, err := sqlrecord.Insert(context.Background(), drv, cycle)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "1 affected rows", res.Message)
	assert.Nil(t, res.Failure)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, int64(12), res.LastInsertID)
	assert.Equal(t, 12, cycle.Number, "generated key is written back")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertExplicitKey(t *testing.T) {
	drv, mock := mockDriver(t)
	cycle := &Cycle{Number: 3, ShortTitle: "MdI"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cycles (number, short_title) VALUES (3, 'MdI')")).
		WillReturnResult(sqlmock.NewResult(99, 1))

	res, err := sqlrecord.Insert(context.Background(), drv, cycle)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, cycle.Number, "present keys are not overwritten")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEmptyRecord(t *testing.T) {
	drv, mock := mockDriver(t)

	res, err := sqlrecord.Insert(context.Background(), drv, &Cycle{})
	assert.ErrorIs(t, err, sqlrecord.ErrEmptyRecord)
	assert.False(t, res.Success)
	assert.Equal(t, "no populated fields", res.Message)
	assert.Nil(t, res.Failure)
	require.NoError(t, mock.ExpectationsWereMet(), "no statement is executed")
}

func TestInsertStructuralErrors(t *testing.T) {
	drv, mock := mockDriver(t)

	t.Run("readonly_field", func(t *testing.T) {
		_, err := sqlrecord.Insert(context.Background(), drv, &Book{Title: "x"})
		assert.ErrorIs(t, err, schema.ErrReadOnly)
	})

	t.Run("no_table", func(t *testing.T) {
		_, err := sqlrecord.Insert(context.Background(), drv, &Untabled{Name: "x"})
		assert.ErrorIs(t, err, schema.ErrNoTable)
	})

	t.Run("not_struct", func(t *testing.T) {
		_, err := sqlrecord.Insert(context.Background(), drv, 42)
		assert.ErrorIs(t, err, schema.ErrNotStruct)
	})

	t.Run("nil_record", func(t *testing.T) {
		var c *Cycle
		_, err := sqlrecord.Insert(context.Background(), drv, c)
		assert.ErrorIs(t, err, schema.ErrNotStruct)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFailureIsReported(t *testing.T) {
	drv, mock := mockDriver(t)
	cause := errors.New("UNIQUE constraint failed: cycles.number")
	mock.ExpectExec("INSERT INTO cycles").WillReturnError(cause)

	res, err := sqlrecord.Insert(context.Background(), drv, &Cycle{Number: 1})
	require.NoError(t, err, "database failures are not returned")
	assert.False(t, res.Success)
	require.Error(t, res.Failure)
	assert.ErrorIs(t, res.Failure, cause)
	assert.True(t, sqlrecord.IsConstraintError(res.Failure))
	assert.True(t, sqlrecord.IsUniqueConstraintError(res.Failure))
	var ce sqlrecord.ConstraintError
	assert.ErrorAs(t, res.Failure, &ce)
	assert.Equal(t, res.Failure.Error(), res.Message)
}

func TestInsertOtherFailure(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectExec("INSERT INTO cycles").WillReturnError(errors.New("connection refused"))

	res, err := sqlrecord.Insert(context.Background(), drv, &Cycle{Number: 1})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, sqlrecord.IsConstraintError(res.Failure))
}

func TestInsertTime(t *testing.T) {
	drv, mock := mockDriver(t)
	published := time.Date(1961, time.September, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO archive (title, published) VALUES ('Stardust', '1961-09-08 00:00:00')")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := sqlrecord.Insert(context.Background(), drv, &archived{Title: "Stardust", Published: published})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NoError(t, mock.ExpectationsWereMet())
}

type archived struct {
	Title     string    `db:"title"`
	Published time.Time `db:"published"`
	Ignored   string    `db:"-"`
}

func (*archived) TableName() string { return "archive" }

type ticket struct {
	ID    uuid.UUID `db:"id,pk"`
	Title string    `db:"title"`
}

func (ticket) TableName() string { return "tickets" }

type draft struct {
	ID    *uuid.UUID `db:"id,pk"`
	Title string     `db:"title"`
}

func (draft) TableName() string { return "drafts" }

// capturingDriver accepts any statement and records the text it ran.
func capturingDriver(t *testing.T, executed *[]string) (*sql.Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherFunc(func(_, actual string) error {
		*executed = append(*executed, actual)
		return nil
	})))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sql.OpenDB(dialect.Postgres, db), mock
}

func TestInsertGeneratesUUIDKey(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		var executed []string
		drv, mock := capturingDriver(t, &executed)
		mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 1))

		rec := &ticket{Title: "Atlan"}
		res, err := sqlrecord.Insert(context.Background(), drv, rec)
		require.NoError(t, err)
		assert.True(t, res.Success)
		require.NotEqual(t, uuid.Nil, rec.ID)
		require.NotEmpty(t, executed)
		assert.Equal(t, "INSERT INTO tickets (id, title) VALUES ('"+rec.ID.String()+"', 'Atlan')", executed[len(executed)-1])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pointer", func(t *testing.T) {
		var executed []string
		drv, mock := capturingDriver(t, &executed)
		mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 1))

		rec := &draft{Title: "Tifflor"}
		_, err := sqlrecord.Insert(context.Background(), drv, rec)
		require.NoError(t, err)
		require.NotNil(t, rec.ID)
		require.NotEmpty(t, executed)
		assert.Equal(t, "INSERT INTO drafts (id, title) VALUES ('"+rec.ID.String()+"', 'Tifflor')", executed[len(executed)-1])
	})

	t.Run("explicit", func(t *testing.T) {
		drv, mock := mockDriver(t)
		id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (id, title) VALUES ('6ba7b810-9dad-11d1-80b4-00c04fd430c8', 'Atlan')")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := &ticket{ID: id, Title: "Atlan"}
		_, err := sqlrecord.Insert(context.Background(), drv, rec)
		require.NoError(t, err)
		assert.Equal(t, id, rec.ID, "present keys are not replaced")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
