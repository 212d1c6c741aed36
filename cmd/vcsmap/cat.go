package main

import (
	"os"
	"path/filepath"

	"vcsmap/internal/vcs"
	"vcsmap/internal/workspace"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <path> <revision>",
	Short: "Print file contents at a revision",
	Long: `Print the contents of a file as of a given revision to stdout.

The path may be absolute, or relative to the selected tree. The file's
directory is probed with each enabled backend until one produces the
contents.`,
	Args: cobra.ExactArgs(2),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		ws, err := workspace.Load(workspaceFlag)
		if err != nil {
			return err
		}
		tree, err := selectTree(ws)
		if err != nil {
			return err
		}
		path = filepath.Join(tree.SourceFolder, path)
	}

	logger := newLogger(cfg)

	data, err := vcs.FileContentsAtRev(cmd.Context(), path, args[1], cfg, logger)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}
