package vcs

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"vcsmap/internal/config"
	"vcsmap/internal/logging"
	"vcsmap/internal/workspace"
)

// Session binds one tree to one discovery result. Construction runs
// discovery; after that the session is read-only and cheap to query
// from many goroutines.
type Session struct {
	ID       string
	Tree     *workspace.Tree
	Registry *Registry
	Cache    *Cache
}

// NewSession discovers the tree's repositories and seals them behind a
// path cache.
func NewSession(ctx context.Context, tree *workspace.Tree, cfg *config.Config, logger *logging.Logger) (*Session, error) {
	id := uuid.New().String()

	registry, err := discoverTree(ctx, id, tree, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:       id,
		Tree:     tree,
		Registry: registry,
		Cache:    NewCache(filepath.Clean(tree.SourceFolder), registry),
	}, nil
}

// ForPath resolves a tree-relative or absolute file path to the
// repository that tracks it.
func (s *Session) ForPath(path string) (Repository, bool) {
	return s.Cache.ForPath(path)
}
