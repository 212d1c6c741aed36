package vcs

import (
	"reflect"
	"testing"
)

func makeRepos(roots ...string) []Repository {
	repos := make([]Repository, 0, len(roots))
	for _, r := range roots {
		repos = append(repos, &fakeRepo{root: r, name: "git"})
	}
	return repos
}

func TestRegistry_DeepestFirst(t *testing.T) {
	reg := NewRegistry(makeRepos(
		"/src",
		"/src/app",
		"/src/app/vendor/lib",
	))

	want := []string{"/src/app/vendor/lib", "/src/app", "/src"}
	if got := reg.Roots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
}

func TestRegistry_LexicalTieBreak(t *testing.T) {
	reg := NewRegistry(makeRepos("/src/b", "/src/a"))

	want := []string{"/src/a", "/src/b"}
	if got := reg.Roots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry(makeRepos("/src/app"))

	repo, ok := reg.Get("/src/app")
	if !ok {
		t.Fatal("Get() = false for registered root")
	}
	if repo.Root() != "/src/app" {
		t.Errorf("Root() = %q", repo.Root())
	}

	if _, ok := reg.Get("/src/other"); ok {
		t.Error("Get() = true for unknown root")
	}
}

func TestRegistry_EachStops(t *testing.T) {
	reg := NewRegistry(makeRepos("/a", "/b", "/c"))

	visits := 0
	reg.Each(func(root string, repo Repository) bool {
		visits++
		return false
	})

	if visits != 1 {
		t.Errorf("visits = %d, want 1", visits)
	}
}

func TestRegistry_Len(t *testing.T) {
	if got := NewRegistry(nil).Len(); got != 0 {
		t.Errorf("Len() = %d for empty registry, want 0", got)
	}
	if got := NewRegistry(makeRepos("/a", "/b")).Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}
