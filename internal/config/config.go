package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	AppName   = "diff-tui"
	EnvPrefix = "DIFF_TUI_"

	ToolAuto = "auto"
	ToolGit  = "git"

	FlagTool    = "tool"
	FlagToolArg = "tool-arg"
)

// Config is the persisted user configuration.
type Config struct {
	Diff  DiffConfig  `koanf:"diff"`
	Theme ThemeConfig `koanf:"theme"`
}

// DiffConfig selects the diff renderer.
type DiffConfig struct {
	// Tool is "auto", "git", or any executable that reads a unified diff on stdin.
	Tool string   `koanf:"tool"`
	Args []string `koanf:"args"`
}

// ThemeConfig holds lipgloss color strings (ANSI index or #rrggbb).
type ThemeConfig struct {
	Modified  string `koanf:"modified"`
	Added     string `koanf:"added"`
	Deleted   string `koanf:"deleted"`
	Renamed   string `koanf:"renamed"`
	Untracked string `koanf:"untracked"`
	Match     string `koanf:"match"`
}

func Default() Config {
	return Config{
		Diff: DiffConfig{
			Tool: ToolAuto,
			Args: []string{},
		},
		Theme: ThemeConfig{
			Modified:  "3",
			Added:     "2",
			Deleted:   "1",
			Renamed:   "6",
			Untracked: "8",
			Match:     "5",
		},
	}
}

// DefaultPath returns ~/.config/diff-tui/config.toml (platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// BindFlags registers the command-line overrides read by Load.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagTool, "", `diff tool: "auto", "git", or an executable name`)
	fs.StringArray(FlagToolArg, nil, "extra argument for the diff tool (repeatable)")
}

// Load layers defaults, the TOML file at path, DIFF_TUI_* environment
// variables and changed flags, in that order. It always returns a usable
// Config; a non-nil error means some layer was skipped and the caller should
// warn. A missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	var errs []error

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				errs = append(errs, fmt.Errorf("load %s: %w", path, err))
				k = koanf.New(".")
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("stat %s: %w", path, err))
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		errs = append(errs, fmt.Errorf("load environment: %w", err))
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagValue), nil); err != nil {
			errs = append(errs, fmt.Errorf("load flags: %w", err))
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		errs = append(errs, fmt.Errorf("decode config: %w", err))
		cfg = Default()
	}
	cfg.normalize()
	return cfg, errors.Join(errs...)
}

// DIFF_TUI_DIFF_TOOL -> diff.tool; DIFF_TUI_DIFF_ARGS is split on whitespace.
func envValue(key, value string) (string, interface{}) {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	k = strings.Replace(k, "_", ".", 1)
	if k == "diff.args" {
		return k, strings.Fields(value)
	}
	return k, value
}

func flagValue(f *pflag.Flag) (string, interface{}) {
	if !f.Changed {
		return "", nil
	}
	switch f.Name {
	case FlagTool:
		return "diff.tool", f.Value.String()
	case FlagToolArg:
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			return "diff.args", sv.GetSlice()
		}
	}
	return "", nil
}

func (c *Config) normalize() {
	c.Diff.Tool = strings.TrimSpace(c.Diff.Tool)
	if c.Diff.Tool == "" {
		c.Diff.Tool = ToolAuto
	}
	switch strings.ToLower(c.Diff.Tool) {
	case ToolAuto, ToolGit:
		c.Diff.Tool = strings.ToLower(c.Diff.Tool)
	}
	if c.Diff.Args == nil {
		c.Diff.Args = []string{}
	}
	d := Default().Theme
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&c.Theme.Modified, d.Modified)
	fill(&c.Theme.Added, d.Added)
	fill(&c.Theme.Deleted, d.Deleted)
	fill(&c.Theme.Renamed, d.Renamed)
	fill(&c.Theme.Untracked, d.Untracked)
	fill(&c.Theme.Match, d.Match)
}

// Encode renders c as TOML in the layout Load reads.
func (c Config) Encode() ([]byte, error) {
	args := make([]interface{}, len(c.Diff.Args))
	for i, a := range c.Diff.Args {
		args[i] = a
	}
	return toml.Parser().Marshal(map[string]interface{}{
		"diff": map[string]interface{}{
			"tool": c.Diff.Tool,
			"args": args,
		},
		"theme": map[string]interface{}{
			"modified":  c.Theme.Modified,
			"added":     c.Theme.Added,
			"deleted":   c.Theme.Deleted,
			"renamed":   c.Theme.Renamed,
			"untracked": c.Theme.Untracked,
			"match":     c.Theme.Match,
		},
	})
}
