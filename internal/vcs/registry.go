package vcs

import (
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Registry is an immutable root-to-repository mapping with a fixed
// iteration order: deepest root first (path length descending, ties
// broken lexically). Nested repositories therefore shadow their
// ancestors during lookups.
type Registry struct {
	repos *linkedhashmap.Map
}

// NewRegistry seals the given repositories into iteration order.
func NewRegistry(repos []Repository) *Registry {
	sorted := make([]Repository, len(repos))
	copy(sorted, repos)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Root(), sorted[j].Root()
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	m := linkedhashmap.New()
	for _, repo := range sorted {
		m.Put(repo.Root(), repo)
	}
	return &Registry{repos: m}
}

// Get returns the repository rooted exactly at root.
func (r *Registry) Get(root string) (Repository, bool) {
	v, ok := r.repos.Get(root)
	if !ok {
		return nil, false
	}
	return v.(Repository), true
}

// Roots returns all roots in iteration order.
func (r *Registry) Roots() []string {
	keys := r.repos.Keys()
	roots := make([]string, 0, len(keys))
	for _, k := range keys {
		roots = append(roots, k.(string))
	}
	return roots
}

// Each visits repositories deepest-first until fn returns false.
func (r *Registry) Each(fn func(root string, repo Repository) bool) {
	it := r.repos.Iterator()
	for it.Next() {
		if !fn(it.Key().(string), it.Value().(Repository)) {
			return
		}
	}
}

// Len returns the number of repositories.
func (r *Registry) Len() int {
	return r.repos.Size()
}
