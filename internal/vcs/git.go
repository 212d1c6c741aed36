package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
)

// Git is a snapshot of a git checkout: HEAD revision, the set of
// tracked paths, and the origin remote rewritten to a web base URL.
type Git struct {
	root     string
	revision string
	upstream string
	tracked  map[string]struct{}
	run      *runner
}

// NewGit snapshots the checkout rooted at root. A repository whose
// origin remote is not recognized still constructs; only URL
// generation degrades.
func NewGit(ctx context.Context, root string, timeout time.Duration, logger *logging.Logger) (*Git, error) {
	run := &runner{tool: "git", dir: root, timeout: timeout, logger: logger}

	revision, err := run.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	files, err := run.runLines(ctx, "ls-files")
	if err != nil {
		return nil, err
	}
	tracked := make(map[string]struct{}, len(files))
	for _, f := range files {
		tracked[f] = struct{}{}
	}

	remotes, err := run.runLines(ctx, "remote", "-v")
	if err != nil {
		return nil, err
	}
	upstream := upstreamFromRemotes(remotes)
	if upstream == "" {
		logger.WarnOnce("git-remote:"+root, "unsupported remote; web links disabled for this repository", map[string]interface{}{
			"root": root,
		})
	}

	logger.Debug("Git snapshot built", map[string]interface{}{
		"root":     root,
		"revision": revision,
		"files":    len(tracked),
	})

	return &Git{
		root:     root,
		revision: revision,
		upstream: upstream,
		tracked:  tracked,
		run:      run,
	}, nil
}

// upstreamFromRemotes picks the origin remote out of `git remote -v`
// output and rewrites recognized GitHub forms to an https base URL with
// a trailing slash. Unrecognized remotes yield an empty upstream.
func upstreamFromRemotes(lines []string) string {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "origin" {
			continue
		}
		remote := fields[1]

		var upstream string
		switch {
		case strings.HasPrefix(remote, "git@github.com:"):
			upstream = "https://github.com/" + strings.TrimPrefix(remote, "git@github.com:")
		case strings.HasPrefix(remote, "git://github.com/"):
			upstream = "https" + strings.TrimPrefix(remote, "git")
		case strings.HasPrefix(remote, "https://github.com/"):
			upstream = remote
		default:
			return ""
		}

		upstream = strings.TrimSuffix(upstream, ".git")
		return upstream + "/"
	}
	return ""
}

func (g *Git) Root() string     { return g.root }
func (g *Git) Name() string     { return KindGit }
func (g *Git) Upstream() string { return g.upstream }

func (g *Git) setUpstream(u string) { g.upstream = u }

func (g *Git) IsTracked(rel string) bool {
	_, ok := g.tracked[rel]
	return ok
}

func (g *Git) LogURL(rel string) (string, error) {
	if g.upstream == "" {
		return "", errUpstreamUnsupported(g)
	}
	return fmt.Sprintf("%scommits/%s/%s", g.upstream, g.revision, rel), nil
}

// DiffURL points at the whole-commit view; the hosting site has no
// stable per-file diff anchor.
func (g *Git) DiffURL(rel string) (string, error) {
	if g.upstream == "" {
		return "", errUpstreamUnsupported(g)
	}
	return fmt.Sprintf("%scommit/%s", g.upstream, g.revision), nil
}

func (g *Git) BlameURL(rel string) (string, error) {
	if g.upstream == "" {
		return "", errUpstreamUnsupported(g)
	}
	return fmt.Sprintf("%sblame/%s/%s", g.upstream, g.revision, rel), nil
}

func (g *Git) RawURL(rel string) (string, error) {
	if g.upstream == "" {
		return "", errUpstreamUnsupported(g)
	}
	return fmt.Sprintf("%sraw/%s/%s", g.upstream, g.revision, rel), nil
}

func (g *Git) DisplayRev(rel string) string {
	if len(g.revision) < 10 {
		return g.revision
	}
	return g.revision[:10]
}

func (g *Git) Contents(ctx context.Context, rel string, rev string) ([]byte, error) {
	output, err := g.run.runBytes(ctx, "show", rev+":./"+rel)
	if err != nil {
		return nil, errors.NewVcsError(
			errors.ContentUnavailable,
			fmt.Sprintf("git cannot produce %s at %s", rel, rev),
			err,
			nil,
		)
	}
	return output, nil
}

// gitBackend claims directories containing .git, either the metadata
// directory or the pointer file a worktree or submodule leaves behind.
type gitBackend struct {
	timeout time.Duration
	logger  *logging.Logger
}

func (b *gitBackend) Kind() string { return KindGit }

func (b *gitBackend) Claim(ctx context.Context, dir string) (Repository, []string, error) {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return nil, nil, nil
	}

	// Only a real metadata directory is pruned; a pointer file leaves
	// nothing to skip.
	var pruned []string
	if info.IsDir() {
		pruned = []string{".git"}
	}

	repo, err := NewGit(ctx, dir, b.timeout, b.logger)
	if err != nil {
		return nil, pruned, err
	}
	return repo, pruned, nil
}
