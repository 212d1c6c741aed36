package vcs

import (
	"context"
	"fmt"
	"path/filepath"

	"vcsmap/internal/config"
	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
)

// FileContentsAtRev fetches the contents of a file at a revision
// without a discovered handle. Mercurial is tried first, then git, each
// invoked from the file's parent directory so the tool can locate its
// own repository upward. The first backend that produces output wins.
func FileContentsAtRev(ctx context.Context, absPath string, rev string, cfg *config.Config, logger *logging.Logger) ([]byte, error) {
	dir := filepath.Dir(absPath)
	name := filepath.Base(absPath)

	type attempt struct {
		kind string
		tool string
		args []string
	}

	var attempts []attempt
	if cfg.Backends.Mercurial.Enabled {
		attempts = append(attempts, attempt{KindMercurial, "hg", []string{"cat", "-r", rev, name}})
	}
	if cfg.Backends.Git.Enabled {
		attempts = append(attempts, attempt{KindGit, "git", []string{"show", rev + ":./" + name}})
	}

	var lastErr error
	for _, a := range attempts {
		run := &runner{tool: a.tool, dir: dir, timeout: timeoutFor(cfg, a.kind), logger: logger}
		output, err := run.runBytes(ctx, a.args...)
		if err == nil {
			return output, nil
		}
		lastErr = err
	}

	return nil, errors.NewVcsError(
		errors.ContentUnavailable,
		fmt.Sprintf("no backend could produce %s at revision %s", absPath, rev),
		lastErr,
		nil,
	)
}
