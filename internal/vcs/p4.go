package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vcsmap/internal/errors"
	"vcsmap/internal/logging"
	"vcsmap/internal/paths"
)

// Perforce is a snapshot of a synced client workspace, built from the
// have list: one record per synced file mapping the root-relative local
// path to its depot path and have revision. Links target a p4web
// instance configured per tree.
type Perforce struct {
	root     string
	upstream string
	have     map[string]p4HaveRecord
}

type p4HaveRecord struct {
	depotFile string
	haveRev   int
}

// NewPerforce snapshots the client workspace rooted at root. webURL is
// the p4web base used verbatim in links; depot paths supply their own
// leading slashes.
func NewPerforce(ctx context.Context, root string, webURL string, timeout time.Duration, logger *logging.Logger) (*Perforce, error) {
	run := &runner{tool: "p4", dir: root, timeout: timeout, logger: logger}

	output, err := run.run(ctx, "-ztag", "have")
	if err != nil {
		return nil, err
	}

	have := make(map[string]p4HaveRecord)
	for _, record := range parseTaggedOutput(output) {
		depotFile := record["depotFile"]
		local := record["path"]
		if local == "" {
			local = record["clientFile"]
		}
		rev, convErr := strconv.Atoi(record["haveRev"])
		if depotFile == "" || local == "" || convErr != nil {
			continue
		}
		rel, ok := paths.RelUnderRoot(root, local)
		if !ok {
			continue
		}
		have[rel] = p4HaveRecord{depotFile: depotFile, haveRev: rev}
	}

	logger.Debug("Perforce snapshot built", map[string]interface{}{
		"root":  root,
		"files": len(have),
	})

	return &Perforce{
		root:     root,
		upstream: webURL,
		have:     have,
	}, nil
}

// parseTaggedOutput splits -ztag output into records. Fields are lines
// of the form "... name value"; a blank line ends the record.
func parseTaggedOutput(output string) []map[string]string {
	var records []map[string]string
	current := make(map[string]string)

	flush := func() {
		if len(current) > 0 {
			records = append(records, current)
			current = make(map[string]string)
		}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if !strings.HasPrefix(line, "... ") {
			continue
		}
		rest := line[len("... "):]
		if i := strings.IndexByte(rest, ' '); i > 0 {
			current[rest[:i]] = rest[i+1:]
		}
	}
	flush()

	return records
}

func (p *Perforce) Root() string     { return p.root }
func (p *Perforce) Name() string     { return KindPerforce }
func (p *Perforce) Upstream() string { return p.upstream }

func (p *Perforce) setUpstream(u string) { p.upstream = u }

func (p *Perforce) IsTracked(rel string) bool {
	_, ok := p.have[rel]
	return ok
}

func (p *Perforce) record(rel string) (p4HaveRecord, error) {
	if p.upstream == "" {
		return p4HaveRecord{}, errUpstreamUnsupported(p)
	}
	rec, ok := p.have[rel]
	if !ok {
		return p4HaveRecord{}, errPathNotTracked(p, rel)
	}
	return rec, nil
}

func (p *Perforce) LogURL(rel string) (string, error) {
	rec, err := p.record(rel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s?ac=22#%d", p.upstream, rec.depotFile, rec.haveRev), nil
}

func (p *Perforce) DiffURL(rel string) (string, error) {
	rec, err := p.record(rel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s?ac=19&rev1=%d&rev2=%d", p.upstream, rec.depotFile, rec.haveRev-1, rec.haveRev), nil
}

func (p *Perforce) BlameURL(rel string) (string, error) {
	rec, err := p.record(rel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s?ac=193", p.upstream, rec.depotFile), nil
}

func (p *Perforce) RawURL(rel string) (string, error) {
	rec, err := p.record(rel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s?ac=98&rev1=%d", p.upstream, rec.depotFile, rec.haveRev), nil
}

func (p *Perforce) DisplayRev(rel string) string {
	rec, ok := p.have[rel]
	if !ok {
		return ""
	}
	return fmt.Sprintf("#%d", rec.haveRev)
}

func (p *Perforce) Contents(ctx context.Context, rel string, rev string) ([]byte, error) {
	return nil, errors.NewVcsError(
		errors.ContentUnavailable,
		"contents at revision are not supported for perforce workspaces",
		nil,
		nil,
	)
}

// p4Backend claims directories containing the per-client settings file
// named by the tree configuration. An unset name disables detection.
type p4Backend struct {
	configName string
	webURL     string
	timeout    time.Duration
	logger     *logging.Logger
}

func (b *p4Backend) Kind() string { return KindPerforce }

func (b *p4Backend) Claim(ctx context.Context, dir string) (Repository, []string, error) {
	if b.configName == "" {
		return nil, nil, nil
	}
	if _, err := os.Stat(filepath.Join(dir, b.configName)); err != nil {
		return nil, nil, nil
	}

	repo, err := NewPerforce(ctx, dir, b.webURL, b.timeout, b.logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, nil, nil
}
