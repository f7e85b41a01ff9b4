package difftool

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/interpretive-systems/difftui/internal/config"
)

// Placeholder is returned when every backend failed.
const Placeholder = "Failed to get diff"

// RichRenderer is the tool tried first in "auto" mode.
const RichRenderer = "delta"

var errEmptyOutput = errors.New("empty output")

// Resolver turns a path into displayable diff bytes. It never fails; the
// last resort is Placeholder.
type Resolver struct {
	RepoRoot string
	Tool     string
	Args     []string

	Runner   Runner
	LookPath func(string) (string, error)
	Logger   *log.Logger
}

// New returns a Resolver for cfg that spawns real processes.
func New(repoRoot string, cfg config.DiffConfig, logger *log.Logger) *Resolver {
	return &Resolver{
		RepoRoot: repoRoot,
		Tool:     cfg.Tool,
		Args:     cfg.Args,
		Runner:   ExecRunner{},
		LookPath: exec.LookPath,
		Logger:   logger,
	}
}

type step struct {
	name string
	run  func() ([]byte, error)
}

// Diff returns the rendered diff for path (relative to RepoRoot). width is the
// usable display width; values <= 0 leave wrapping to the tool.
func (r *Resolver) Diff(path string, width int) []byte {
	for _, s := range r.steps(path, width) {
		out, err := s.run()
		if err == nil && len(out) > 0 {
			r.debug("diff step succeeded", "step", s.name, "path", path, "bytes", len(out))
			return out
		}
		if err == nil {
			err = errEmptyOutput
		}
		r.debug("diff step failed", "step", s.name, "path", path, "err", err)
	}
	return []byte(Placeholder)
}

func (r *Resolver) steps(path string, width int) []step {
	var steps []step
	switch tool := strings.TrimSpace(r.Tool); tool {
	case config.ToolGit:
	case config.ToolAuto, "":
		steps = append(steps, r.toolStep(RichRenderer, path, width))
	default:
		steps = append(steps, r.toolStep(tool, path, width))
	}
	return append(steps, r.nativeSteps(path, "--color=always")...)
}

// nativeSteps tries the working tree diff, then against HEAD for staged-only
// changes, then against an empty baseline for new and untracked files.
func (r *Resolver) nativeSteps(path, colorFlag string) []step {
	variants := []struct {
		name string
		args []string
	}{
		{"git diff", []string{"diff", colorFlag, "--", path}},
		{"git diff HEAD", []string{"diff", colorFlag, "HEAD", "--", path}},
		{"git diff --no-index", []string{"diff", colorFlag, "--no-index", "--", "/dev/null", path}},
	}
	steps := make([]step, 0, len(variants))
	for _, v := range variants {
		args := append([]string{"-C", r.RepoRoot}, v.args...)
		steps = append(steps, step{
			name: v.name + " " + colorFlag,
			run:  func() ([]byte, error) { return r.git(args...) },
		})
	}
	return steps
}

func (r *Resolver) git(args ...string) ([]byte, error) {
	out, err := r.runner().Run(nil, "git", args...)
	if len(out) > 0 {
		// git diff --no-index exits 1 when the files differ.
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, errEmptyOutput
}

// rawDiff returns the uncolored diff used as tool input.
func (r *Resolver) rawDiff(path string) ([]byte, error) {
	var errs []error
	for _, s := range r.nativeSteps(path, "--no-color") {
		out, err := s.run()
		if err == nil && len(out) > 0 {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return nil, errors.Join(errs...)
}

func (r *Resolver) toolStep(tool, path string, width int) step {
	return step{
		name: tool,
		run: func() ([]byte, error) {
			bin, err := r.lookPath(tool)
			if err != nil {
				return nil, err
			}
			input, err := r.rawDiff(path)
			if err != nil {
				return nil, err
			}
			out, err := r.runner().Run(input, bin, ToolArgs(tool, r.Args, width)...)
			if len(out) == 0 {
				if err == nil {
					err = errEmptyOutput
				}
				return nil, fmt.Errorf("%s: %w", tool, err)
			}
			return sanitize(out), nil
		},
	}
}

// ToolArgs builds the argument list for tool. The rich renderer gets
// --paging=never and the display width unless extra already sets them.
func ToolArgs(tool string, extra []string, width int) []string {
	if filepath.Base(tool) != RichRenderer {
		return append([]string(nil), extra...)
	}
	var args []string
	if !hasFlag(extra, "--paging") {
		args = append(args, "--paging=never")
	}
	if width > 0 && !hasFlag(extra, "--width", "-w") {
		args = append(args, "--width", strconv.Itoa(width))
	}
	return append(args, extra...)
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n || strings.HasPrefix(a, n+"=") {
				return true
			}
		}
	}
	return false
}

func (r *Resolver) runner() Runner {
	if r.Runner == nil {
		return ExecRunner{}
	}
	return r.Runner
}

func (r *Resolver) lookPath(name string) (string, error) {
	if r.LookPath == nil {
		return exec.LookPath(name)
	}
	return r.LookPath(name)
}

func (r *Resolver) debug(msg string, kv ...interface{}) {
	if r.Logger != nil {
		r.Logger.Debug(msg, kv...)
	}
}
