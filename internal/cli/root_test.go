package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stormlin"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stormlin", cmd.Use)
	assert.Contains(t, cmd.Long, "perry")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "migrate", "cycles", "book", "books", "add-book", "validate"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	driverFlag := cmd.PersistentFlags().Lookup("driver")
	require.NotNil(t, driverFlag)
	assert.Equal(t, "sqlite", driverFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"render", "--format", "xml"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootOptionsConfig(t *testing.T) {
	t.Setenv(stormlin.EnvDSN, "from-env.db")

	opts := &RootOptions{Driver: "sqlite"}
	cfg, err := opts.config()
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.DSN)

	opts.DSN = "from-flag.db"
	opts.Debug = true
	cfg, err = opts.config()
	require.NoError(t, err)
	assert.Equal(t, "from-flag.db", cfg.DSN)
	assert.True(t, cfg.Debug)

	opts = &RootOptions{Config: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err = opts.config()
	assert.Error(t, err)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, "open: "+assert.AnError.Error(), WrapExitError(ExitFailure, "open", assert.AnError).Error())
	assert.Equal(t, "plain", (&ExitError{Message: "plain"}).Error())
}
