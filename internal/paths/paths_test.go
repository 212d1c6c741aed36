package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetVcsmapHome(t *testing.T) {
	// Test with environment variable
	originalEnv := os.Getenv(VcsmapHomeEnvVar)
	t.Cleanup(func() { _ = os.Setenv(VcsmapHomeEnvVar, originalEnv) })

	// Set custom home
	customHome := "/custom/vcsmap/home"
	_ = os.Setenv(VcsmapHomeEnvVar, customHome)

	home, err := GetVcsmapHome()
	if err != nil {
		t.Fatalf("GetVcsmapHome failed: %v", err)
	}
	if home != customHome {
		t.Errorf("Expected %s, got %s", customHome, home)
	}

	// Test without environment variable
	_ = os.Unsetenv(VcsmapHomeEnvVar)

	home, err = GetVcsmapHome()
	if err != nil {
		t.Fatalf("GetVcsmapHome failed: %v", err)
	}

	// Should end with .vcsmap
	if !strings.HasSuffix(home, DefaultVcsmapHome) {
		t.Errorf("Expected path to end with %s, got %s", DefaultVcsmapHome, home)
	}
}

func TestEnsureVcsmapHome(t *testing.T) {
	tempDir := t.TempDir()

	originalEnv := os.Getenv(VcsmapHomeEnvVar)
	_ = os.Setenv(VcsmapHomeEnvVar, filepath.Join(tempDir, "home"))
	t.Cleanup(func() { _ = os.Setenv(VcsmapHomeEnvVar, originalEnv) })

	home, err := EnsureVcsmapHome()
	if err != nil {
		t.Fatalf("EnsureVcsmapHome failed: %v", err)
	}

	info, err := os.Stat(home)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}
}

func TestGetWorkspacePath(t *testing.T) {
	tempDir := t.TempDir()

	originalEnv := os.Getenv(VcsmapHomeEnvVar)
	_ = os.Setenv(VcsmapHomeEnvVar, tempDir)
	t.Cleanup(func() { _ = os.Setenv(VcsmapHomeEnvVar, originalEnv) })

	path, err := GetWorkspacePath()
	if err != nil {
		t.Fatalf("GetWorkspacePath failed: %v", err)
	}

	expected := filepath.Join(tempDir, WorkspaceFile)
	if path != expected {
		t.Errorf("Expected %s, got %s", expected, path)
	}
}

func TestGetConfigPath(t *testing.T) {
	tempDir := t.TempDir()

	originalEnv := os.Getenv(VcsmapHomeEnvVar)
	_ = os.Setenv(VcsmapHomeEnvVar, tempDir)
	t.Cleanup(func() { _ = os.Setenv(VcsmapHomeEnvVar, originalEnv) })

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}

	if !strings.HasSuffix(path, ConfigFile) {
		t.Errorf("Expected path to end with %s, got %s", ConfigFile, path)
	}
}

func TestCanonicalizePath(t *testing.T) {
	tempDir := t.TempDir()

	// Create test file
	testFile := filepath.Join(tempDir, "subdir", "test.go")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("package test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	canonical, err := CanonicalizePath(testFile, tempDir)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}

	expected := "subdir/test.go"
	if canonical != expected {
		t.Errorf("Expected %s, got %s", expected, canonical)
	}
}

func TestIsWithinRepo(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "subdir", "test.go")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("package test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// File inside repo should return true
	if !IsWithinRepo(testFile, tempDir) {
		t.Error("Expected file to be within repo")
	}

	// File outside repo should return false
	outsideFile := filepath.Join(os.TempDir(), "outside.go")
	if IsWithinRepo(outsideFile, tempDir) {
		t.Error("Expected file outside repo to return false")
	}
}

func TestRelUnderRoot(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		path    string
		wantRel string
		wantOK  bool
	}{
		{
			name:    "direct child",
			root:    "/src/repo",
			path:    "/src/repo/main.c",
			wantRel: "main.c",
			wantOK:  true,
		},
		{
			name:    "nested child",
			root:    "/src/repo",
			path:    "/src/repo/a/b/c.h",
			wantRel: "a/b/c.h",
			wantOK:  true,
		},
		{
			name:    "root itself",
			root:    "/src/repo",
			path:    "/src/repo",
			wantRel: ".",
			wantOK:  true,
		},
		{
			name:   "sibling escapes",
			root:   "/src/repo",
			path:   "/src/other/file.c",
			wantOK: false,
		},
		{
			name:   "parent escapes",
			root:   "/src/repo",
			path:   "/src",
			wantOK: false,
		},
		{
			name:   "sibling with shared prefix is not inside",
			root:   "/src/repo",
			path:   "/src/repo-tools/x.c",
			wantOK: false,
		},
		{
			name:    "unclean inputs",
			root:    "/src/repo/",
			path:    "/src/repo/./a//b.c",
			wantRel: "a/b.c",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, ok := RelUnderRoot(tt.root, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("RelUnderRoot(%q, %q) ok = %v, want %v", tt.root, tt.path, ok, tt.wantOK)
			}
			if ok && rel != tt.wantRel {
				t.Errorf("RelUnderRoot(%q, %q) = %q, want %q", tt.root, tt.path, rel, tt.wantRel)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	// Test that forward slashes are preserved
	result := NormalizePath("path/to/file")
	expected := "path/to/file"
	if result != expected {
		t.Errorf("NormalizePath(path/to/file): expected %s, got %s", expected, result)
	}

	// Note: filepath.ToSlash only converts the OS-specific separator
	// On Unix, backslashes are valid filename characters and won't be converted
	// On Windows, backslashes would be converted to forward slashes
}

func TestJoinRepoPath(t *testing.T) {
	result := JoinRepoPath("/repo/root", "path/to/file.go")
	expected := filepath.Join("/repo/root", "path", "to", "file.go")
	if result != expected {
		t.Errorf("JoinRepoPath: expected %s, got %s", expected, result)
	}
}

func TestPathConstants(t *testing.T) {
	if DefaultVcsmapHome != ".vcsmap" {
		t.Errorf("DefaultVcsmapHome = %q, want %q", DefaultVcsmapHome, ".vcsmap")
	}
	if VcsmapHomeEnvVar != "VCSMAP_HOME" {
		t.Errorf("VcsmapHomeEnvVar = %q, want %q", VcsmapHomeEnvVar, "VCSMAP_HOME")
	}
	if WorkspaceFile != "workspace.toml" {
		t.Errorf("WorkspaceFile = %q, want %q", WorkspaceFile, "workspace.toml")
	}
	if ConfigFile != "config.json" {
		t.Errorf("ConfigFile = %q, want %q", ConfigFile, "config.json")
	}
}
