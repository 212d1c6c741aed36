package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"vcsmap/internal/vcs"
	"vcsmap/internal/workspace"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover repositories in the selected tree",
	Long: `Walk the selected tree's source folder and print every repository
found, deepest first. Nested checkouts are listed separately from their
ancestors.`,
	RunE: runDiscover,
}

var discoverJSON bool

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Output as JSON")
}

func runDiscover(cmd *cobra.Command, args []string) error {
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

	registry, err := vcs.Discover(cmd.Context(), tree, cfg, logger)
	if err != nil {
		return err
	}

	if registry.Len() == 0 {
		fmt.Println("No repositories discovered.")
		return nil
	}

	if discoverJSON {
		type repoInfo struct {
			Backend  string `json:"backend"`
			Root     string `json:"root"`
			Revision string `json:"revision,omitempty"`
			Upstream string `json:"upstream,omitempty"`
		}
		var infos []repoInfo
		registry.Each(func(root string, repo vcs.Repository) bool {
			infos = append(infos, repoInfo{
				Backend:  repo.Name(),
				Root:     root,
				Revision: repo.DisplayRev(""),
				Upstream: repo.Upstream(),
			})
			return true
		})
		data, _ := json.MarshalIndent(infos, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tROOT\tREVISION\tUPSTREAM")
	registry.Each(func(root string, repo vcs.Repository) bool {
		rev := repo.DisplayRev("")
		if rev == "" {
			rev = "-"
		}
		upstream := repo.Upstream()
		if upstream == "" {
			upstream = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", repo.Name(), root, rev, upstream)
		return true
	})
	return w.Flush()
}
