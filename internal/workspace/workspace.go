// Package workspace manages the set of source trees vcsmap operates on.
// Trees are declared in workspace.toml under the vcsmap home directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"vcsmap/internal/paths"
)

const currentWorkspaceVersion = 1

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Workspace represents the workspace configuration stored in workspace.toml
type Workspace struct {
	// Version is the workspace file format version
	Version int `toml:"version"`

	// Trees is the list of source trees in this workspace
	Trees []Tree `toml:"tree"`
}

// Tree represents a source tree entry in the workspace config
type Tree struct {
	// Name is the tree identifier used on the command line
	Name string `toml:"name"`

	// SourceFolder is the absolute filesystem path to the tree's checkout
	SourceFolder string `toml:"source_folder"`

	// P4Web is the base URL of the p4web instance for Perforce clients
	// in this tree, empty when the tree has none
	P4Web string `toml:"p4_web,omitempty"`

	// P4ConfigName is the per-client settings filename that marks a
	// Perforce workspace root, empty disables Perforce detection
	P4ConfigName string `toml:"p4_config_name,omitempty"`

	// Description is an optional human-readable description
	Description string `toml:"description,omitempty"`
}

// New creates an empty workspace at the current format version
func New() *Workspace {
	return &Workspace{
		Version: currentWorkspaceVersion,
		Trees:   []Tree{},
	}
}

// ValidateName checks if a tree name is valid.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("tree name cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("tree name must contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

// AddTree adds a source tree to the workspace
func (w *Workspace) AddTree(tree Tree) error {
	if err := ValidateName(tree.Name); err != nil {
		return err
	}
	if !filepath.IsAbs(tree.SourceFolder) {
		return fmt.Errorf("source folder %q must be an absolute path", tree.SourceFolder)
	}

	for _, t := range w.Trees {
		if t.Name == tree.Name {
			return fmt.Errorf("tree with name %q already exists", tree.Name)
		}
		if t.SourceFolder == tree.SourceFolder {
			return fmt.Errorf("tree at path %q already exists (as %q)", tree.SourceFolder, t.Name)
		}
	}

	w.Trees = append(w.Trees, tree)
	return nil
}

// RemoveTree removes a source tree from the workspace by name
func (w *Workspace) RemoveTree(name string) error {
	for i, t := range w.Trees {
		if t.Name == name {
			w.Trees = append(w.Trees[:i], w.Trees[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tree %q not found", name)
}

// Tree returns a source tree by name, nil when absent
func (w *Workspace) Tree(name string) *Tree {
	for i := range w.Trees {
		if w.Trees[i].Name == name {
			return &w.Trees[i]
		}
	}
	return nil
}

// Validate checks the workspace for structural problems
func (w *Workspace) Validate() error {
	if w.Version != currentWorkspaceVersion {
		return fmt.Errorf("unsupported workspace version %d", w.Version)
	}

	seen := make(map[string]bool)
	for _, t := range w.Trees {
		if err := ValidateName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tree name %q", t.Name)
		}
		seen[t.Name] = true

		if !filepath.IsAbs(t.SourceFolder) {
			return fmt.Errorf("tree %q: source folder %q must be an absolute path", t.Name, t.SourceFolder)
		}
	}

	return nil
}

// Load loads the workspace configuration from disk. An explicit path
// overrides the default location under the vcsmap home. A missing file
// yields an empty workspace rather than an error.
func Load(path string) (*Workspace, error) {
	if path == "" {
		var err error
		path, err = paths.GetWorkspacePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get workspace path: %w", err)
		}
	}

	var ws Workspace
	if _, err := toml.DecodeFile(path, &ws); err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to parse workspace: %w", err)
	}

	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace %s: %w", path, err)
	}

	return &ws, nil
}

// Save saves the workspace configuration to disk at the given path,
// or the default location when path is empty
func (w *Workspace) Save(path string) error {
	if path == "" {
		home, err := paths.EnsureVcsmapHome()
		if err != nil {
			return fmt.Errorf("failed to create vcsmap home: %w", err)
		}
		path = filepath.Join(home, paths.WorkspaceFile)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workspace file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(w); err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}

	return nil
}
