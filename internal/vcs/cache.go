package vcs

import (
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map"

	"vcsmap/internal/paths"
)

// Cache memoizes path-to-repository resolution over a sealed registry.
// Lookups are safe from many goroutines; a race recomputes the same
// answer, so no entry ever goes stale.
type Cache struct {
	treeRoot string
	registry *Registry
	entries  cmap.ConcurrentMap
}

// NewCache builds a cache over the registry. treeRoot anchors relative
// lookup paths.
func NewCache(treeRoot string, registry *Registry) *Cache {
	return &Cache{
		treeRoot: treeRoot,
		registry: registry,
		entries:  cmap.New(),
	}
}

// ForPath returns the repository tracking the file at path, which is
// either absolute or relative to the tree root. Absence is cached too:
// a path no repository tracks stays a cheap miss.
func (c *Cache) ForPath(path string) (Repository, bool) {
	if raw, ok := c.entries.Get(path); ok {
		repo, _ := raw.(Repository)
		return repo, repo != nil
	}

	repo := c.resolve(path)
	c.entries.Set(path, repo)
	return repo, repo != nil
}

// resolve scans the registry deepest-first. A repository that contains
// the path but does not track it does not end the scan; an ancestor
// repository may still track the same file.
func (c *Cache) resolve(path string) Repository {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(c.treeRoot, abs)
	}

	var found Repository
	c.registry.Each(func(root string, repo Repository) bool {
		rel, ok := paths.RelUnderRoot(root, abs)
		if !ok {
			return true
		}
		if repo.IsTracked(rel) {
			found = repo
			return false
		}
		return true
	})
	return found
}

// Size returns the number of memoized lookups.
func (c *Cache) Size() int {
	return c.entries.Count()
}
