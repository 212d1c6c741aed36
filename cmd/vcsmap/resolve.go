package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"vcsmap/internal/errors"
	"vcsmap/internal/paths"
	"vcsmap/internal/vcs"
	"vcsmap/internal/workspace"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Resolve paths to their tracking repositories",
	Long: `Resolve file paths (absolute, or relative to the selected tree) to
the repository that tracks them, and print the upstream web links for
each resolved file.

Exits with code 1 if none of the paths resolved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

var resolveJSON bool

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output as JSON")
}

// urlOr renders a composed URL, or a dash when the handle cannot
// produce one (degraded upstream, untracked path).
func urlOr(fn func(string) (string, error), rel string) string {
	u, err := fn(rel)
	if err != nil {
		return "-"
	}
	return u
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ws, err := workspace.Load(workspaceFlag)
	if err != nil {
		return err
	}

	tree, err := selectTree(ws)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	session, err := vcs.NewSession(cmd.Context(), tree, cfg, logger)
	if err != nil {
		return err
	}

	type resolution struct {
		Path     string `json:"path"`
		Tracked  bool   `json:"tracked"`
		Backend  string `json:"backend,omitempty"`
		Root     string `json:"root,omitempty"`
		Revision string `json:"revision,omitempty"`
		Log      string `json:"log,omitempty"`
		Diff     string `json:"diff,omitempty"`
		Blame    string `json:"blame,omitempty"`
		Raw      string `json:"raw,omitempty"`
	}

	resolved := 0
	results := make([]resolution, 0, len(args))
	for _, arg := range args {
		repo, ok := session.ForPath(arg)
		if !ok {
			results = append(results, resolution{Path: arg})
			continue
		}
		resolved++

		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(tree.SourceFolder, arg)
		}
		rel, _ := paths.RelUnderRoot(repo.Root(), abs)

		results = append(results, resolution{
			Path:     arg,
			Tracked:  true,
			Backend:  repo.Name(),
			Root:     repo.Root(),
			Revision: repo.DisplayRev(rel),
			Log:      urlOr(repo.LogURL, rel),
			Diff:     urlOr(repo.DiffURL, rel),
			Blame:    urlOr(repo.BlameURL, rel),
			Raw:      urlOr(repo.RawURL, rel),
		})
	}

	if resolveJSON {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
	} else {
		for _, r := range results {
			if !r.Tracked {
				fmt.Printf("%s: not tracked\n", r.Path)
				continue
			}
			fmt.Println(r.Path)
			fmt.Printf("  Backend:  %s\n", r.Backend)
			fmt.Printf("  Root:     %s\n", r.Root)
			fmt.Printf("  Revision: %s\n", r.Revision)
			fmt.Printf("  Log:      %s\n", r.Log)
			fmt.Printf("  Diff:     %s\n", r.Diff)
			fmt.Printf("  Blame:    %s\n", r.Blame)
			fmt.Printf("  Raw:      %s\n", r.Raw)
		}
	}

	if resolved == 0 {
		return errors.NewVcsError(
			errors.PathNotTracked,
			"no paths resolved to a repository",
			nil,
			nil,
		)
	}
	return nil
}
