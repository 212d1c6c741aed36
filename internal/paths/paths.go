package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// VcsmapHomeEnvVar overrides the vcsmap home directory location
	VcsmapHomeEnvVar = "VCSMAP_HOME"

	// DefaultVcsmapHome is the default home directory name under $HOME
	DefaultVcsmapHome = ".vcsmap"

	// WorkspaceFile is the workspace file name inside the vcsmap home
	WorkspaceFile = "workspace.toml"

	// ConfigFile is the global configuration file name inside the vcsmap home
	ConfigFile = "config.json"
)

// GetVcsmapHome returns the vcsmap home directory.
// Honors VCSMAP_HOME, otherwise $HOME/.vcsmap.
func GetVcsmapHome() (string, error) {
	if custom := os.Getenv(VcsmapHomeEnvVar); custom != "" {
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultVcsmapHome), nil
}

// EnsureVcsmapHome returns the vcsmap home directory, creating it if needed
func EnsureVcsmapHome() (string, error) {
	home, err := GetVcsmapHome()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", err
	}
	return home, nil
}

// GetWorkspacePath returns the default workspace file path
func GetWorkspacePath() (string, error) {
	home, err := GetVcsmapHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, WorkspaceFile), nil
}

// GetConfigPath returns the default global config file path
func GetConfigPath() (string, error) {
	home, err := GetVcsmapHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFile), nil
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the repository root
// - Converts backslashes to forward slashes
// - Returns root-relative path with forward slashes
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	// Resolve symlinks
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	repoRootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			repoRootResolved = repoRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(repoRootResolved, resolved)
	if err != nil {
		return "", err
	}

	// Convert to forward slashes (platform independent)
	canonicalPath := filepath.ToSlash(relativePath)

	return canonicalPath, nil
}

// IsWithinRepo checks if a path is within the repository root
func IsWithinRepo(path string, repoRoot string) bool {
	canonical, err := CanonicalizePath(path, repoRoot)
	if err != nil {
		return false
	}

	// Path is outside repo if it starts with ..
	return !strings.HasPrefix(canonical, "..")
}

// RelUnderRoot makes absPath relative to root without touching the
// filesystem. Returns the slash-separated relative path and true when the
// path lies inside root ("." for root itself), or "" and false when the
// relative path escapes upward. Resolution uses this on every registry
// scan, so it stays purely lexical.
func RelUnderRoot(root string, absPath string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(absPath))
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRepoPath joins a repo root with a canonical path
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	// Ensure we use forward slashes in the canonical path
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	// Convert to OS-specific path separator for joining
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}
