// Package vcs discovers version-control repositories inside configured
// source trees and answers, for any file path, which repository tracks
// it and how to link to that file in the repository's upstream web view.
//
// Repository handles are snapshots: all state (revision, tracked files,
// upstream URL) is captured at construction time, and every query after
// that is a pure read. Only Contents invokes the backend again.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vcsmap/internal/config"
	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
	"vcsmap/internal/workspace"
)

// Backend kind identifiers, also used as queryPolicy.timeoutMs keys.
const (
	KindMercurial = "hg"
	KindGit       = "git"
	KindPerforce  = "p4"
)

// Repository is a frozen view of one discovered checkout.
type Repository interface {
	// Root returns the absolute path of the repository root.
	Root() string

	// Name returns the backend kind ("hg", "git", "p4").
	Name() string

	// Upstream returns the normalized upstream base URL, empty when the
	// repository has no usable upstream.
	Upstream() string

	// IsTracked reports whether the slash-separated root-relative path
	// was tracked when the snapshot was taken. Never invokes the backend.
	IsTracked(rel string) bool

	// LogURL, DiffURL, BlameURL and RawURL compose upstream web links
	// for a tracked root-relative path. Pure string composition.
	LogURL(rel string) (string, error)
	DiffURL(rel string) (string, error)
	BlameURL(rel string) (string, error)
	RawURL(rel string) (string, error)

	// DisplayRev returns a short human-readable revision for the path,
	// empty when unknown.
	DisplayRev(rel string) string

	// Contents fetches the file contents at the given revision by
	// invoking the backend tool.
	Contents(ctx context.Context, rel string, rev string) ([]byte, error)
}

// Backend inspects directories during discovery and claims the ones it
// recognizes as repository roots.
type Backend interface {
	// Kind returns the backend identifier.
	Kind() string

	// Claim inspects dir and, when dir is the root of a checkout this
	// backend manages, snapshots it into a Repository. The second result
	// names entries under dir the walk must not descend into; it is
	// meaningful even when construction fails, so broken checkouts still
	// get their metadata directories pruned.
	Claim(ctx context.Context, dir string) (Repository, []string, error)
}

// Backends returns the enabled backends for a tree in claim priority
// order. The first backend to claim a directory wins.
func Backends(tree *workspace.Tree, cfg *config.Config, logger *logging.Logger) []Backend {
	var backends []Backend
	if cfg.Backends.Mercurial.Enabled {
		backends = append(backends, &hgBackend{
			timeout: timeoutFor(cfg, KindMercurial),
			logger:  logger,
		})
	}
	if cfg.Backends.Git.Enabled {
		backends = append(backends, &gitBackend{
			timeout: timeoutFor(cfg, KindGit),
			logger:  logger,
		})
	}
	if cfg.Backends.Perforce.Enabled && tree != nil && tree.P4ConfigName != "" {
		backends = append(backends, &p4Backend{
			configName: tree.P4ConfigName,
			webURL:     tree.P4Web,
			timeout:    timeoutFor(cfg, KindPerforce),
			logger:     logger,
		})
	}
	return backends
}

const defaultTimeoutMs = 5000

func timeoutFor(cfg *config.Config, kind string) time.Duration {
	ms := cfg.QueryPolicy.TimeoutMs[kind]
	if ms <= 0 {
		ms = defaultTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// runner executes one backend tool from a fixed working directory.
type runner struct {
	tool    string
	dir     string
	timeout time.Duration
	logger  *logging.Logger
}

// run executes the tool and returns trimmed stdout.
func (r *runner) run(ctx context.Context, args ...string) (string, error) {
	output, err := r.runBytes(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// runBytes executes the tool and returns stdout exactly as produced.
// Used where the output is file content and must not be trimmed.
func (r *runner) runBytes(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.tool, args...)
	cmd.Dir = r.dir

	r.logger.Debug("Executing vcs command", map[string]interface{}{
		"tool":    r.tool,
		"args":    args,
		"dir":     r.dir,
		"timeout": r.timeout.String(),
	})

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewVcsError(
				errors.Timeout,
				fmt.Sprintf("%s command timed out", r.tool),
				err,
				nil,
			).WithDetails(map[string]interface{}{
				"args":    args,
				"timeout": r.timeout.String(),
			})
		}

		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			return nil, errors.NewVcsError(
				errors.BackendUnavailable,
				fmt.Sprintf("%s is not installed or not on PATH", r.tool),
				err,
				errors.GetSuggestedFixes(errors.BackendUnavailable),
			)
		}

		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.NewVcsError(
				errors.InvocationFailed,
				fmt.Sprintf("%s command failed", r.tool),
				err,
				nil,
			).WithDetails(map[string]interface{}{
				"args":   args,
				"stderr": string(exitErr.Stderr),
			})
		}

		return nil, errors.NewVcsError(
			errors.InvocationFailed,
			fmt.Sprintf("failed to execute %s", r.tool),
			err,
			nil,
		)
	}

	return output, nil
}

// runLines executes the tool and returns non-empty trimmed output lines.
func (r *runner) runLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	if output == "" {
		return []string{}, nil
	}

	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result, nil
}
