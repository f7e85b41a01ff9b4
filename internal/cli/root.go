package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/interpretive-systems/difftui/internal/config"
	"github.com/interpretive-systems/difftui/internal/difftool"
	"github.com/interpretive-systems/difftui/internal/gitx"
	"github.com/interpretive-systems/difftui/internal/tui"
)

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

const longHelp = `diff-tui browses the files changed in the current git working tree,
fuzzy-filters them and shows a colorized diff for the selected file.

KEYBINDINGS:
    File List:
        j/Down    Move to next file
        k/Up      Move to previous file
        Enter     View diff of selected file
        /         Start search mode
        q         Quit

    Search:
        type      Filter the list
        Up/Down   Move selection
        Enter     View diff of selected file
        Esc       Clear the search

    Diff View:
        j/Down    Scroll down
        k/Up      Scroll up
        d/PgDn    Scroll down 20 lines
        u/PgUp    Scroll up 20 lines
        g/Home    Go to top
        G/End     Go to bottom
        q/Esc     Return to file list

    Ctrl+C quits from anywhere.`

type rootOptions struct {
	repo       string
	configPath string
	debug      bool
	logFile    string
	help       bool
}

// configFile returns --config or the default location.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "diff-tui",
		Short:         "Terminal viewer for changed files in a git working tree",
		Long:          longHelp,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.help {
				return cmd.Help()
			}
			return runViewer(cmd, opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.repo, "repo", "r", ".", "Path inside the repository (default: current dir)")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/diff-tui/config.toml)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "Write logs to this file while the viewer is open")
	config.BindFlags(pf)

	root.Flags().BoolVarP(&opts.help, "Help", "H", false, "Also show help (alias for -h)")
	_ = root.Flags().MarkHidden("Help")

	root.AddCommand(newConfigCmd(opts))
	return root
}

func runViewer(cmd *cobra.Command, opts *rootOptions, stderr io.Writer) error {
	logger := newLogger(stderr, opts.debug)

	cfg, cfgPath := loadConfig(cmd, opts, logger)
	logger.Debug("configuration loaded", "config_path", cfgPath, "tool", cfg.Diff.Tool, "args", cfg.Diff.Args)

	repo, err := gitx.Open(opts.repo)
	if err != nil {
		return err
	}
	files, err := repo.ChangedFiles()
	if err != nil {
		return fmt.Errorf("list changed files: %w", err)
	}
	logger.Debug("repository opened", "root", repo.Root(), "changed", len(files))

	// Anything written to the terminal while the viewer owns it would corrupt the frame.
	tuiLogger, closeLog, err := newSessionLogger(opts.logFile, opts.debug)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLog(); err != nil {
			logger.Warn("close log file", "path", opts.logFile, "err", err)
		}
	}()

	tuiLogger.Info("starting viewer", "root", repo.Root(), "files", len(files), "tool", cfg.Diff.Tool)
	err = tui.Run(tui.Options{
		Files:  files,
		Differ: difftool.New(repo.Root(), cfg.Diff, tuiLogger),
		Theme:  cfg.Theme,
		Logger: tuiLogger,
	})
	if err != nil {
		tuiLogger.Error("viewer terminated with error", "err", err)
		return err
	}
	tuiLogger.Info("viewer closed")
	return nil
}

// loadConfig never fails: problems are logged and defaults fill the gaps.
func loadConfig(cmd *cobra.Command, opts *rootOptions, logger warner) (config.Config, string) {
	path, err := opts.configFile()
	if err != nil {
		logger.Warn("no config directory, using defaults", "err", err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		logger.Warn("config not fully loaded, using defaults where needed", "path", path, "err", err)
	}
	return cfg, path
}
