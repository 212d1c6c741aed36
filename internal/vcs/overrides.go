package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"vcsmap/internal/errors"
)

// OverridesFile is the filename of the optional per-tree overrides file
// at the tree's source folder root.
const OverridesFile = ".vcsmap.toml"

// Overrides adjusts discovery for one tree: directory names the walk
// skips, and upstream URLs forced onto repositories whose own remotes
// are missing or unrecognized.
type Overrides struct {
	// Ignore lists directory names skipped entirely during the walk
	Ignore []string `toml:"ignore"`

	// Upstreams maps a tree-relative repository root ("." for the tree
	// root itself) to the upstream base URL its handle should carry
	Upstreams map[string]string `toml:"upstreams"`
}

// LoadOverrides reads the overrides file at the tree's source folder
// root. A missing file yields empty overrides.
func LoadOverrides(treeRoot string) (*Overrides, error) {
	filePath := filepath.Join(treeRoot, OverridesFile)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overrides{}, nil
		}
		return nil, errors.NewVcsError(
			errors.ConfigInvalid,
			fmt.Sprintf("failed to read %s", OverridesFile),
			err,
			nil,
		)
	}

	var o Overrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, errors.NewVcsError(
			errors.ConfigInvalid,
			fmt.Sprintf("failed to parse %s", OverridesFile),
			err,
			errors.GetSuggestedFixes(errors.ConfigInvalid),
		)
	}

	return &o, nil
}

// ignoreSet returns the ignore list as a membership set.
func (o *Overrides) ignoreSet() map[string]bool {
	set := make(map[string]bool, len(o.Ignore))
	for _, name := range o.Ignore {
		set[name] = true
	}
	return set
}

// upstreamFor looks up the forced upstream for a repository root,
// keyed tree-relative. The returned URL always ends in a slash.
func (o *Overrides) upstreamFor(treeRoot string, repoRoot string) (string, bool) {
	if len(o.Upstreams) == 0 {
		return "", false
	}

	rel, err := filepath.Rel(treeRoot, repoRoot)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	u, ok := o.Upstreams[rel]
	if !ok || u == "" {
		return "", false
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, true
}
