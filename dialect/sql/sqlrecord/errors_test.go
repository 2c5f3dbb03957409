package sqlrecord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		check      bool
		notNull    bool
	}{
		{name: "nil"},
		{name: "plain", err: errors.New("connection refused")},
		{name: "mysql_duplicate", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'PRIMARY'"}, unique: true},
		{name: "mysql_fk_child", err: &mysql.MySQLError{Number: 1452}, foreignKey: true},
		{name: "mysql_fk_parent", err: &mysql.MySQLError{Number: 1451}, foreignKey: true},
		{name: "mysql_check", err: &mysql.MySQLError{Number: 3819}, check: true},
		{name: "mysql_bad_null", err: &mysql.MySQLError{Number: 1048}, notNull: true},
		{name: "mysql_other", err: &mysql.MySQLError{Number: 1146, Message: "UNIQUE constraint failed"}},
		{name: "pq_unique", err: &pq.Error{Code: "23505"}, unique: true},
		{name: "pq_fk", err: &pq.Error{Code: "23503"}, foreignKey: true},
		{name: "pq_check", err: &pq.Error{Code: "23514"}, check: true},
		{name: "pq_not_null", err: &pq.Error{Code: "23502"}, notNull: true},
		{name: "pq_other", err: &pq.Error{Code: "42P01"}},
		{name: "sqlite_unique", err: errors.New("constraint failed: UNIQUE constraint failed: cycles.number (1555)"), unique: true},
		{name: "sqlite_fk", err: errors.New("FOREIGN KEY constraint failed"), foreignKey: true},
		{name: "sqlite_check", err: errors.New("CHECK constraint failed: start > 0"), check: true},
		{name: "sqlite_not_null", err: errors.New("NOT NULL constraint failed: hefte.title"), notNull: true},
		{name: "wrapped_mysql", err: fmt.Errorf("dialect/sql: exec: %w", &mysql.MySQLError{Number: 1062}), unique: true},
		{name: "wrapped_pq", err: fmt.Errorf("dialect/sql: exec: %w", &pq.Error{Code: "23505"}), unique: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.check, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.notNull, IsNotNullConstraintError(tt.err))
			constraint := tt.unique || tt.foreignKey || tt.check || tt.notNull
			assert.Equal(t, constraint, IsConstraintError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("timeout")
	assert.Same(t, plain, classify(plain))

	cause := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	err := classify(cause)
	var ce ConstraintError
	if assert.ErrorAs(t, err, &ce) {
		assert.Equal(t, "sqlrecord: constraint failed: "+cause.Error(), ce.Error())
	}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, err, classify(err), "already classified errors are kept")
}
