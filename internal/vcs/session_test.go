package vcs

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"vcsmap/internal/config"
	"vcsmap/internal/logging"
	"vcsmap/internal/workspace"
)

func TestNewSession_EmptyTree(t *testing.T) {
	tree := &workspace.Tree{Name: "empty", SourceFolder: t.TempDir()}

	s, err := NewSession(context.Background(), tree, config.DefaultConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID = %q is not a uuid: %v", s.ID, err)
	}
	if s.Registry.Len() != 0 {
		t.Errorf("Registry.Len() = %d, want 0", s.Registry.Len())
	}
	if _, ok := s.ForPath("anything.c"); ok {
		t.Error("ForPath() = true on empty session")
	}
}
