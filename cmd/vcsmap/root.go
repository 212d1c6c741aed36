package main

import (
	"fmt"
	"os"

	"vcsmap/internal/config"
	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
	"vcsmap/internal/version"
	"vcsmap/internal/workspace"

	"github.com/spf13/cobra"
)

var (
	workspaceFlag string
	configFlag    string
	treeFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vcsmap",
	Short: "vcsmap - repository discovery and upstream link resolution",
	Long: `vcsmap discovers the version-control repositories (Mercurial, Git,
Perforce) inside configured source trees and answers, for any file path,
which repository tracks it and which upstream web URLs (log, diff, blame,
raw) correspond to it.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("vcsmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&workspaceFlag, "workspace", "",
		"Path to workspace.toml (default: ~/.vcsmap/workspace.toml)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to config.json (default: ~/.vcsmap/config.json)")
	rootCmd.PersistentFlags().StringVar(&treeFlag, "tree", "",
		"Tree to operate on (default: VCSMAP_TREE, or the single configured tree)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")
}

// loadConfig reads the global configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Flags win over config; output
// goes to stderr so command output on stdout stays clean.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.LogLevel(level),
	})
}

// selectTree determines the effective tree.
// Precedence: --tree flag > VCSMAP_TREE env var > single configured tree.
func selectTree(ws *workspace.Workspace) (*workspace.Tree, error) {
	name := treeFlag
	if name == "" {
		name = os.Getenv("VCSMAP_TREE")
	}

	if name != "" {
		tree := ws.Tree(name)
		if tree == nil {
			return nil, errors.NewVcsError(
				errors.TreeNotFound,
				fmt.Sprintf("tree %q is not configured", name),
				nil,
				errors.GetSuggestedFixes(errors.TreeNotFound),
			)
		}
		return tree, nil
	}

	if len(ws.Trees) == 1 {
		return &ws.Trees[0], nil
	}

	return nil, errors.NewVcsError(
		errors.TreeNotFound,
		"no tree selected; pass --tree or set VCSMAP_TREE",
		nil,
		errors.GetSuggestedFixes(errors.TreeNotFound),
	)
}
