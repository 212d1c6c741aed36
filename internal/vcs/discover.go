package vcs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"vcsmap/internal/config"
	"vcsmap/internal/logging"
	"vcsmap/internal/workspace"
)

// Discover walks a tree's source folder and returns the sealed registry
// of every repository claimed inside it. If the source folder itself is
// not a repository root, ancestors are tried until one claims, so a
// tree pointed at a subdirectory of a checkout still resolves.
//
// Finding no repositories at all is a valid outcome, not an error.
func Discover(ctx context.Context, tree *workspace.Tree, cfg *config.Config, logger *logging.Logger) (*Registry, error) {
	return discoverTree(ctx, uuid.New().String(), tree, cfg, logger)
}

func discoverTree(ctx context.Context, sessionID string, tree *workspace.Tree, cfg *config.Config, logger *logging.Logger) (*Registry, error) {
	treeRoot := filepath.Clean(tree.SourceFolder)

	overrides, err := LoadOverrides(treeRoot)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		session:   sessionID,
		treeRoot:  treeRoot,
		backends:  Backends(tree, cfg, logger),
		overrides: overrides,
		ignore:    overrides.ignoreSet(),
		logger:    logger,
	}

	var repos []Repository
	d.walk(ctx, treeRoot, &repos)

	if !rootClaimed(repos, treeRoot) {
		d.climb(ctx, &repos)
	}

	logger.Info("Discovery finished", map[string]interface{}{
		"session": sessionID,
		"tree":    tree.Name,
		"repos":   len(repos),
	})

	return NewRegistry(repos), nil
}

type discoverer struct {
	session   string
	treeRoot  string
	backends  []Backend
	overrides *Overrides
	ignore    map[string]bool
	logger    *logging.Logger
}

// walk descends into dir, claiming as it goes. Claimed repositories are
// walked into as well; nested checkouts are discovered separately.
// Symbolic links are not followed.
func (d *discoverer) walk(ctx context.Context, dir string, repos *[]Repository) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		d.logger.Debug("Skipping unreadable directory", map[string]interface{}{
			"session": d.session,
			"dir":     dir,
			"error":   err.Error(),
		})
		return
	}

	pruned := d.claim(ctx, dir, repos)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if d.ignore[name] || pruned[name] {
			continue
		}
		d.walk(ctx, filepath.Join(dir, name), repos)
	}
}

// claim tries each backend against dir in priority order; the first
// claim wins. The returned set names children the walk must skip, and
// it accumulates across failed claims too, so a broken checkout still
// gets its metadata directory pruned.
func (d *discoverer) claim(ctx context.Context, dir string, repos *[]Repository) map[string]bool {
	prunedSet := make(map[string]bool)

	for _, backend := range d.backends {
		repo, pruned, err := backend.Claim(ctx, dir)
		for _, name := range pruned {
			prunedSet[name] = true
		}
		if err != nil {
			d.logger.Warn("Claim failed; skipping repository", map[string]interface{}{
				"session": d.session,
				"backend": backend.Kind(),
				"dir":     dir,
				"error":   err.Error(),
			})
			continue
		}
		if repo != nil {
			d.applyOverride(repo)
			*repos = append(*repos, repo)
			d.logger.Info("Discovered repository", map[string]interface{}{
				"session": d.session,
				"backend": repo.Name(),
				"root":    repo.Root(),
			})
			break
		}
	}

	return prunedSet
}

// climb tries ancestors of the tree root, nearest first, and stops at
// the first one claimed.
func (d *discoverer) climb(ctx context.Context, repos *[]Repository) {
	dir := d.treeRoot
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent

		before := len(*repos)
		d.claim(ctx, dir, repos)
		if len(*repos) > before {
			return
		}
	}
}

func (d *discoverer) applyOverride(repo Repository) {
	u, ok := d.overrides.upstreamFor(d.treeRoot, repo.Root())
	if !ok {
		return
	}
	if setter, can := repo.(interface{ setUpstream(string) }); can {
		setter.setUpstream(u)
		d.logger.Debug("Upstream override applied", map[string]interface{}{
			"session":  d.session,
			"root":     repo.Root(),
			"upstream": u,
		})
	}
}

func rootClaimed(repos []Repository, root string) bool {
	for _, repo := range repos {
		if repo.Root() == root {
			return true
		}
	}
	return false
}
