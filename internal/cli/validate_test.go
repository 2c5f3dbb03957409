package cli

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "perry.Cycle: No issues found\nperry.Book: No issues found\n", out.String())
}

func TestValidateCommandJSON(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var reports []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "perry.Cycle", reports[0]["type"])
	assert.NotContains(t, reports[0], "errors")
}

type misshapen struct {
	Title string `db:"title"`
	Name  string `db:"title"`
	Seen  bool   `db:"seen,readonly"`
}

func TestValidateTypes(t *testing.T) {
	reports, failed := validateTypes([]reflect.Type{reflect.TypeFor[misshapen]()})
	require.True(t, failed)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "cli.misshapen", r.Type)
	require.Len(t, r.Errors, 2, "missing table and duplicate column")
	assert.Equal(t, "missing TableName() string", r.Errors[0].Message)
	assert.Equal(t, "Name", r.Errors[1].Field)
	assert.Len(t, r.Warnings, 2, "readonly field and missing pk")
	assert.Contains(t, r.String(), "Errors:")
}
