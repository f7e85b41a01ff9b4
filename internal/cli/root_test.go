package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/difftui/internal/gitx"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHelpAliasShowsKeybindings(t *testing.T) {
	out, _, err := execute(t, "-H")
	require.NoError(t, err)
	assert.Contains(t, out, "KEYBINDINGS:")
	assert.Contains(t, out, "Return to file list")
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestRejectsPositionalArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	require.Error(t, err)
}

func TestOutsideRepositoryFails(t *testing.T) {
	_, _, err := execute(t, "--repo", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, gitx.ErrNotRepository)
}

func TestConfigCommandPrintsEffectiveSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[diff]\ntool = \"git\"\n\n[theme]\nadded = \"#00ff00\"\n"), 0o644))

	out, stderr, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, `tool = "git"`)
	assert.Contains(t, out, `added = "#00ff00"`)
	assert.Empty(t, stderr)
}

func TestConfigCommandFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[diff]\ntool = \"git\"\n"), 0o644))

	out, _, err := execute(t, "config", "--config", path, "--tool", "cat")
	require.NoError(t, err)
	assert.Contains(t, out, `tool = "cat"`)
}

func TestConfigCommandWarnsOnMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[diff\ntool ="), 0o644))

	out, stderr, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `tool = "auto"`)
	assert.Contains(t, stderr, "config not fully loaded")
}

func TestSessionLoggerWritesLogfmtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "diff-tui.log")
	logger, closeLog, err := newSessionLogger(path, true)
	require.NoError(t, err)
	logger.Debug("opened diff", "path", "a.go")
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "level=debug")
	assert.Contains(t, string(b), "path=a.go")
	assert.Contains(t, string(b), "prefix=diff-tui")
}

func TestSessionLoggerWithoutFileDiscards(t *testing.T) {
	logger, closeLog, err := newSessionLogger("", false)
	require.NoError(t, err)
	logger.Info("nothing")
	assert.NoError(t, closeLog())
}
