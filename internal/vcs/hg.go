package vcs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
)

// Mercurial is a snapshot of an hg checkout. The tracked test and the
// per-file diff links come from the lastChange map, which records for
// every path the newest changeset that touched it.
type Mercurial struct {
	root       string
	revision   string
	upstream   string
	lastChange map[string]string
	run        *runner
}

const hgNodeLen = 40

// NewMercurial snapshots the checkout rooted at root.
func NewMercurial(ctx context.Context, root string, timeout time.Duration, logger *logging.Logger) (*Mercurial, error) {
	run := &runner{tool: "hg", dir: root, timeout: timeout, logger: logger}

	revision, err := run.run(ctx, "log", "-r", "tip", "--template", "{node}")
	if err != nil {
		return nil, err
	}

	// One pass over the full log, newest first.
	lines, err := run.runLines(ctx, "log", "--template", `{files % "{node} {file}\n"}`)
	if err != nil {
		return nil, err
	}
	lastChange := parseLastChange(lines)

	rawUpstream, err := run.run(ctx, "paths", "default")
	if err != nil {
		return nil, err
	}
	upstream, err := normalizeHgUpstream(rawUpstream)
	if err != nil {
		return nil, fmt.Errorf("unparseable default path %q: %w", rawUpstream, err)
	}

	logger.Debug("Mercurial snapshot built", map[string]interface{}{
		"root":     root,
		"revision": revision,
		"files":    len(lastChange),
	})

	return &Mercurial{
		root:       root,
		revision:   revision,
		upstream:   upstream,
		lastChange: lastChange,
		run:        run,
	}, nil
}

// parseLastChange maps each path to the changeset that last touched
// it. Lines are "<node> <path>" pairs ordered newest first, so the
// first occurrence of a path wins. The node is fixed-width hex, which
// keeps paths with spaces intact.
func parseLastChange(lines []string) map[string]string {
	lastChange := make(map[string]string, len(lines))
	for _, line := range lines {
		if len(line) < hgNodeLen+2 {
			continue
		}
		node, path := line[:hgNodeLen], line[hgNodeLen+1:]
		if _, seen := lastChange[path]; !seen {
			lastChange[path] = node
		}
	}
	return lastChange
}

// normalizeHgUpstream rewrites the default push/pull path into a web
// base URL: ssh becomes http, credentials are dropped, the port is
// kept, and the path gets exactly one leading and one trailing slash.
func normalizeHgUpstream(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if u.Scheme == "ssh" {
		u.Scheme = "http"
	}

	host := u.Hostname()
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	u.User = nil

	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

func (m *Mercurial) Root() string     { return m.root }
func (m *Mercurial) Name() string     { return KindMercurial }
func (m *Mercurial) Upstream() string { return m.upstream }

func (m *Mercurial) setUpstream(u string) { m.upstream = u }

func (m *Mercurial) IsTracked(rel string) bool {
	_, ok := m.lastChange[rel]
	return ok
}

func (m *Mercurial) LogURL(rel string) (string, error) {
	if m.upstream == "" {
		return "", errUpstreamUnsupported(m)
	}
	return fmt.Sprintf("%sfilelog/%s/%s", m.upstream, m.revision, rel), nil
}

// DiffURL links the last changeset that touched the path, not the tip;
// diffing a file against a changeset that did not modify it renders an
// empty page on hgweb.
func (m *Mercurial) DiffURL(rel string) (string, error) {
	if m.upstream == "" {
		return "", errUpstreamUnsupported(m)
	}
	node, ok := m.lastChange[rel]
	if !ok {
		return "", errPathNotTracked(m, rel)
	}
	return fmt.Sprintf("%sdiff/%s/%s", m.upstream, node, rel), nil
}

func (m *Mercurial) BlameURL(rel string) (string, error) {
	if m.upstream == "" {
		return "", errUpstreamUnsupported(m)
	}
	return fmt.Sprintf("%sannotate/%s/%s", m.upstream, m.revision, rel), nil
}

func (m *Mercurial) RawURL(rel string) (string, error) {
	if m.upstream == "" {
		return "", errUpstreamUnsupported(m)
	}
	return fmt.Sprintf("%sraw-file/%s/%s", m.upstream, m.revision, rel), nil
}

func (m *Mercurial) DisplayRev(rel string) string {
	if len(m.revision) < 12 {
		return m.revision
	}
	return m.revision[:12]
}

func (m *Mercurial) Contents(ctx context.Context, rel string, rev string) ([]byte, error) {
	output, err := m.run.runBytes(ctx, "cat", "-r", rev, rel)
	if err != nil {
		return nil, errors.NewVcsError(
			errors.ContentUnavailable,
			fmt.Sprintf("hg cannot produce %s at %s", rel, rev),
			err,
			nil,
		)
	}
	return output, nil
}

// hgBackend claims directories containing an .hg metadata directory.
type hgBackend struct {
	timeout time.Duration
	logger  *logging.Logger
}

func (b *hgBackend) Kind() string { return KindMercurial }

func (b *hgBackend) Claim(ctx context.Context, dir string) (Repository, []string, error) {
	info, err := os.Stat(filepath.Join(dir, ".hg"))
	if err != nil || !info.IsDir() {
		return nil, nil, nil
	}

	repo, err := NewMercurial(ctx, dir, b.timeout, b.logger)
	if err != nil {
		return nil, []string{".hg"}, err
	}
	return repo, []string{".hg"}, nil
}

func errUpstreamUnsupported(r Repository) error {
	return errors.NewVcsError(
		errors.UpstreamUnsupported,
		fmt.Sprintf("%s repository at %s has no supported upstream", r.Name(), r.Root()),
		nil,
		nil,
	)
}

func errPathNotTracked(r Repository, rel string) error {
	return errors.NewVcsError(
		errors.PathNotTracked,
		fmt.Sprintf("%s is not tracked by the %s repository at %s", rel, r.Name(), r.Root()),
		nil,
		nil,
	)
}
