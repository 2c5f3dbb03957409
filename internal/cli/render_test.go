package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"render"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	tests := []struct {
		name string
		args []string
	}{
		{"render_cycles", []string{"--select", "a,b", "--from", "cycles", "--where", "number=ced"}},
		{"render_book", []string{"--from", "hefte", "--where", "number=2000", "--where", "author=K. H. Scheer"}},
		{"render_comma", []string{"-s", "x", "-f", "t", "-w", "x=1", "--where-raw", "y > 2", "--comma"}},
		{"render_json", []string{"--from", "cycles", "--format", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, tt.args...)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(out))
		})
	}
}

func TestRenderInvalidPredicate(t *testing.T) {
	_, err := render(t, "--where", "number")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(2000), parseValue("2000"))
	assert.Equal(t, 1.5, parseValue("1.5"))
	assert.Nil(t, parseValue("NULL"))
	assert.Equal(t, "ced", parseValue("ced"))
}

func TestRenderKeepsPredicateOrder(t *testing.T) {
	out, err := render(t, "-f", "hefte", "--where-raw", "published IS NULL", "-w", "number=3", "--where-raw", "title <> ''")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM hefte WHERE published IS NULL AND number = 3 AND title <> ''\n", out)
}

func TestRenderOptionsSelector(t *testing.T) {
	opts := &RenderOptions{
		Fields: []string{"number"},
		From:   "cycles",
		Preds: []PredicateArg{
			{Raw: true, Expr: "start > 100"},
			{Expr: "short_title=MdI"},
		},
	}
	sel, err := opts.Selector()
	require.NoError(t, err)
	assert.Equal(t, "SELECT number FROM cycles WHERE start > 100 AND short_title = 'MdI'", sel.String())
}
