package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"vcsmap/internal/workspace"

	"github.com/spf13/cobra"
)

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List configured source trees",
	Long: `List the source trees declared in workspace.toml.

Workspace location: ~/.vcsmap/workspace.toml (override with --workspace).`,
	RunE: runTreesList,
}

var treesAddCmd = &cobra.Command{
	Use:   "add <name> [path]",
	Short: "Declare a source tree",
	Long: `Declare a source tree in the workspace.

If path is omitted, uses the current working directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTreesAdd,
}

var treesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a source tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreesRemove,
}

var (
	treesJSON        bool
	treeP4WebFlag    string
	treeP4ConfigFlag string
	treeDescFlag     string
)

func init() {
	rootCmd.AddCommand(treesCmd)
	treesCmd.AddCommand(treesAddCmd)
	treesCmd.AddCommand(treesRemoveCmd)

	treesCmd.Flags().BoolVar(&treesJSON, "json", false, "Output as JSON")
	treesAddCmd.Flags().StringVar(&treeP4WebFlag, "p4-web", "", "p4web base URL for Perforce links")
	treesAddCmd.Flags().StringVar(&treeP4ConfigFlag, "p4-config", "", "Perforce client-config filename enabling p4 detection")
	treesAddCmd.Flags().StringVar(&treeDescFlag, "description", "", "Human-readable description")
}

func runTreesList(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Load(workspaceFlag)
	if err != nil {
		return err
	}

	if len(ws.Trees) == 0 {
		fmt.Println("No trees configured.")
		fmt.Println("Use 'vcsmap trees add <name> <path>' to declare one.")
		return nil
	}

	if treesJSON {
		type treeInfo struct {
			Name         string `json:"name"`
			SourceFolder string `json:"source_folder"`
			P4Web        string `json:"p4_web,omitempty"`
			P4ConfigName string `json:"p4_config_name,omitempty"`
			Description  string `json:"description,omitempty"`
		}
		var infos []treeInfo
		for _, t := range ws.Trees {
			infos = append(infos, treeInfo{
				Name:         t.Name,
				SourceFolder: t.SourceFolder,
				P4Web:        t.P4Web,
				P4ConfigName: t.P4ConfigName,
				Description:  t.Description,
			})
		}
		data, _ := json.MarshalIndent(infos, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE FOLDER\tP4 WEB\tDESCRIPTION")
	for _, t := range ws.Trees {
		p4web := t.P4Web
		if p4web == "" {
			p4web = "-"
		}
		desc := t.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.SourceFolder, p4web, desc)
	}
	return w.Flush()
}

func runTreesAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	var path string
	if len(args) == 2 {
		path = args[1]
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = cwd
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	ws, err := workspace.Load(workspaceFlag)
	if err != nil {
		return err
	}

	if err := ws.AddTree(workspace.Tree{
		Name:         name,
		SourceFolder: path,
		P4Web:        treeP4WebFlag,
		P4ConfigName: treeP4ConfigFlag,
		Description:  treeDescFlag,
	}); err != nil {
		return err
	}

	if err := ws.Save(workspaceFlag); err != nil {
		return err
	}

	fmt.Printf("Added %s\n", name)
	fmt.Printf("  Source: %s\n", path)
	if treeP4ConfigFlag != "" {
		fmt.Printf("  Perforce: enabled via %s\n", treeP4ConfigFlag)
	}
	return nil
}

func runTreesRemove(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Load(workspaceFlag)
	if err != nil {
		return err
	}

	if err := ws.RemoveTree(args[0]); err != nil {
		return err
	}

	if err := ws.Save(workspaceFlag); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}
