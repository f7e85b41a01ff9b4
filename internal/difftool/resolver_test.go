package difftool

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpretive-systems/difftui/internal/config"
)

type call struct {
	stdin string
	name  string
	args  []string
}

type fakeRunner struct {
	calls   []call
	respond func(c call) ([]byte, error)
}

func (f *fakeRunner) Run(stdin []byte, name string, args ...string) ([]byte, error) {
	c := call{stdin: string(stdin), name: name, args: args}
	f.calls = append(f.calls, c)
	if f.respond == nil {
		return nil, errors.New("exit status 128")
	}
	return f.respond(c)
}

func joined(c call) string { return c.name + " " + strings.Join(c.args, " ") }

func noTools(string) (string, error) { return "", exec.ErrNotFound }

func allTools(name string) (string, error) { return "/usr/bin/" + name, nil }

func TestDiff_PlaceholderWhenNothingWorks(t *testing.T) {
	for _, tool := range []string{"auto", "git", "colordiff", ""} {
		t.Run(tool, func(t *testing.T) {
			r := &Resolver{RepoRoot: "/repo", Tool: tool, Runner: &fakeRunner{}, LookPath: noTools}
			assert.Equal(t, Placeholder, string(r.Diff("a.txt", 80)))
		})
	}
}

func TestDiff_PlaceholderWhenToolFoundButEverythingEmpty(t *testing.T) {
	fr := &fakeRunner{respond: func(call) ([]byte, error) { return nil, nil }}
	r := &Resolver{RepoRoot: "/repo", Tool: "auto", Runner: fr, LookPath: allTools}
	assert.Equal(t, Placeholder, string(r.Diff("a.txt", 80)))
	// Empty raw diff means delta is never spawned.
	for _, c := range fr.calls {
		assert.Equal(t, "git", c.name)
	}
}

func TestDiff_GitFallsBackToEmptyBaseline(t *testing.T) {
	fr := &fakeRunner{respond: func(c call) ([]byte, error) {
		if strings.Contains(joined(c), "--no-index") {
			return []byte("\x1b[32m+hello\x1b[m\n"), errors.New("exit status 1")
		}
		return nil, nil
	}}
	r := &Resolver{RepoRoot: "/repo", Tool: "git", Runner: fr, LookPath: noTools}

	out := r.Diff("new.txt", 80)
	assert.Equal(t, "\x1b[32m+hello\x1b[m\n", string(out))
	require.Len(t, fr.calls, 3)
	assert.Equal(t, "git -C /repo diff --color=always -- new.txt", joined(fr.calls[0]))
	assert.Equal(t, "git -C /repo diff --color=always HEAD -- new.txt", joined(fr.calls[1]))
	assert.Equal(t, "git -C /repo diff --color=always --no-index -- /dev/null new.txt", joined(fr.calls[2]))
}

func TestDiff_AutoPipesRawDiffThroughDelta(t *testing.T) {
	fr := &fakeRunner{respond: func(c call) ([]byte, error) {
		switch {
		case c.name == "git" && strings.Contains(joined(c), "--no-color -- a.txt"):
			return []byte("raw diff\n"), nil
		case c.name == "/usr/bin/delta":
			return []byte("\x1b[?1049hpretty\x1b[?1049l"), nil
		}
		return nil, nil
	}}
	r := &Resolver{RepoRoot: "/repo", Tool: "auto", Args: []string{"--dark"}, Runner: fr, LookPath: allTools}

	out := r.Diff("a.txt", 78)
	assert.Equal(t, "pretty", string(out))
	last := fr.calls[len(fr.calls)-1]
	assert.Equal(t, "raw diff\n", last.stdin)
	assert.Equal(t, []string{"--paging=never", "--width", "78", "--dark"}, last.args)
}

func TestDiff_AutoWithoutDeltaUsesGit(t *testing.T) {
	fr := &fakeRunner{respond: func(c call) ([]byte, error) {
		if strings.Contains(joined(c), "--color=always -- a.txt") {
			return []byte("colored"), nil
		}
		return nil, nil
	}}
	r := &Resolver{RepoRoot: "/repo", Tool: "auto", Runner: fr, LookPath: noTools}
	assert.Equal(t, "colored", string(r.Diff("a.txt", 80)))
	require.Len(t, fr.calls, 1)
}

func TestDiff_CustomToolFailureFallsBackToGit(t *testing.T) {
	fr := &fakeRunner{respond: func(c call) ([]byte, error) {
		switch {
		case c.name == "/usr/bin/difft":
			return nil, errors.New("signal: killed")
		case strings.Contains(joined(c), "--no-color -- a.txt"):
			return []byte("raw"), nil
		case strings.Contains(joined(c), "--color=always -- a.txt"):
			return []byte("colored"), nil
		}
		return nil, nil
	}}
	r := &Resolver{RepoRoot: "/repo", Tool: "difft", Args: []string{"--color=always"}, Runner: fr, LookPath: allTools}
	assert.Equal(t, "colored", string(r.Diff("a.txt", 80)))

	var toolCall *call
	for i := range fr.calls {
		if fr.calls[i].name == "/usr/bin/difft" {
			toolCall = &fr.calls[i]
		}
	}
	require.NotNil(t, toolCall)
	assert.Equal(t, []string{"--color=always"}, toolCall.args)
	assert.Equal(t, "raw", toolCall.stdin)
}

func TestToolArgs_WidthNotDoubled(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		extra []string
		width int
		want  []string
	}{
		{"delta injects", "delta", nil, 100, []string{"--paging=never", "--width", "100"}},
		{"delta long form", "delta", []string{"--width=120"}, 100, []string{"--paging=never", "--width=120"}},
		{"delta separate value", "delta", []string{"--width", "120"}, 100, []string{"--paging=never", "--width", "120"}},
		{"delta short", "delta", []string{"-w", "90"}, 100, []string{"--paging=never", "-w", "90"}},
		{"delta paging kept", "/opt/bin/delta", []string{"--paging=always"}, 0, []string{"--paging=always"}},
		{"other tool untouched", "colordiff", []string{"-u"}, 100, []string{"-u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolArgs(tt.tool, tt.extra, tt.width))
		})
	}
}

func TestNew_FromConfig(t *testing.T) {
	r := New("/repo", config.DiffConfig{Tool: "git", Args: []string{"-x"}}, nil)
	assert.Equal(t, "/repo", r.RepoRoot)
	assert.Equal(t, "git", r.Tool)
	assert.Equal(t, []string{"-x"}, r.Args)
	assert.NotNil(t, r.LookPath)
}

func TestSanitize(t *testing.T) {
	in := "\x1b[?1000h\x1b[?2004ha\x1b[31mb\x1b[?1006l"
	assert.Equal(t, "a\x1b[31mb", string(sanitize([]byte(in))))
}

// Integration against a real repository.

func mustRun(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "%s %v: %s", name, args, out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	mustRun(t, dir, "git", "init", "-q")
	mustRun(t, dir, "git", "config", "user.email", "test@example.com")
	mustRun(t, dir, "git", "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("one\n"), 0o644))
	mustRun(t, dir, "git", "add", ".")
	mustRun(t, dir, "git", "commit", "-q", "-m", "init")
	return dir
}

func TestDiff_RealGit(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("fresh\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("staged\n"), 0o644))
	mustRun(t, dir, "git", "add", "staged.txt")

	r := New(dir, config.DiffConfig{Tool: "git"}, nil)

	out := string(r.Diff("f.txt", 80))
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "two")

	out = string(r.Diff("untracked.txt", 80))
	assert.Contains(t, out, "fresh")

	out = string(r.Diff("staged.txt", 80))
	assert.Contains(t, out, "staged")

	assert.Equal(t, Placeholder, string(r.Diff("does-not-exist.txt", 80)))
}

func TestDiff_RealCustomTool(t *testing.T) {
	dir := initRepo(t)
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not installed")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("one\nthree\n"), 0o644))

	r := New(dir, config.DiffConfig{Tool: "cat"}, nil)
	out := string(r.Diff("f.txt", 80))
	assert.Contains(t, out, "+three")
	assert.NotContains(t, out, "\x1b[")
}
