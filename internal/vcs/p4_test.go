package vcs

import (
	"context"
	"testing"

	"vcsmap/internal/errors"
)

const p4HaveOutput = `... depotFile //depot/main/lib/util.c
... clientFile //ws/lib/util.c
... path /home/build/ws/lib/util.c
... haveRev 7

... depotFile //depot/main/src/app.c
... clientFile //ws/src/app.c
... path /home/build/ws/src/app.c
... haveRev 12`

func TestParseTaggedOutput(t *testing.T) {
	records := parseTaggedOutput(p4HaveOutput)

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first["depotFile"] != "//depot/main/lib/util.c" {
		t.Errorf("depotFile = %q", first["depotFile"])
	}
	if first["path"] != "/home/build/ws/lib/util.c" {
		t.Errorf("path = %q", first["path"])
	}
	if first["haveRev"] != "7" {
		t.Errorf("haveRev = %q", first["haveRev"])
	}

	if records[1]["haveRev"] != "12" {
		t.Errorf("second haveRev = %q", records[1]["haveRev"])
	}
}

func TestParseTaggedOutput_IgnoresNoise(t *testing.T) {
	output := "warning: something\r\n... depotFile //depot/a.c\r\n... haveRev 1\r\n"

	records := parseTaggedOutput(output)

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0]["depotFile"] != "//depot/a.c" {
		t.Errorf("depotFile = %q", records[0]["depotFile"])
	}
}

func testPerforce() *Perforce {
	return &Perforce{
		root:     "/home/build/ws",
		upstream: "http://p4web.example.com:8080",
		have: map[string]p4HaveRecord{
			"lib/util.c": {depotFile: "//depot/main/lib/util.c", haveRev: 7},
		},
	}
}

func TestPerforce_URLs(t *testing.T) {
	p := testPerforce()

	tests := []struct {
		name string
		fn   func(string) (string, error)
		want string
	}{
		{"raw", p.RawURL, "http://p4web.example.com:8080//depot/main/lib/util.c?ac=98&rev1=7"},
		{"log", p.LogURL, "http://p4web.example.com:8080//depot/main/lib/util.c?ac=22#7"},
		{"blame", p.BlameURL, "http://p4web.example.com:8080//depot/main/lib/util.c?ac=193"},
		{"diff against previous", p.DiffURL, "http://p4web.example.com:8080//depot/main/lib/util.c?ac=19&rev1=6&rev2=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn("lib/util.c")
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestPerforce_UnknownPath(t *testing.T) {
	p := testPerforce()

	if _, err := p.RawURL("not/synced.c"); !errors.IsCode(err, errors.PathNotTracked) {
		t.Errorf("error code = %v, want PathNotTracked", errors.CodeOf(err))
	}
}

func TestPerforce_NoWebURL(t *testing.T) {
	p := testPerforce()
	p.upstream = ""

	if _, err := p.LogURL("lib/util.c"); !errors.IsCode(err, errors.UpstreamUnsupported) {
		t.Errorf("error code = %v, want UpstreamUnsupported", errors.CodeOf(err))
	}
}

func TestPerforce_DisplayRev(t *testing.T) {
	p := testPerforce()

	if got := p.DisplayRev("lib/util.c"); got != "#7" {
		t.Errorf("DisplayRev() = %q, want %q", got, "#7")
	}
	if got := p.DisplayRev("not/synced.c"); got != "" {
		t.Errorf("DisplayRev() for unknown path = %q, want empty", got)
	}
}

func TestPerforce_ContentsUnsupported(t *testing.T) {
	p := testPerforce()

	_, err := p.Contents(context.Background(), "lib/util.c", "7")
	if !errors.IsCode(err, errors.ContentUnavailable) {
		t.Errorf("error code = %v, want ContentUnavailable", errors.CodeOf(err))
	}
}

func TestPerforce_IsTracked(t *testing.T) {
	p := testPerforce()

	if !p.IsTracked("lib/util.c") {
		t.Error("IsTracked() = false for synced path")
	}
	if p.IsTracked("lib/other.c") {
		t.Error("IsTracked() = true for unknown path")
	}
}

func TestP4Backend_DisabledWithoutConfigName(t *testing.T) {
	b := &p4Backend{configName: ""}

	repo, pruned, err := b.Claim(context.Background(), t.TempDir())
	if repo != nil || pruned != nil || err != nil {
		t.Errorf("Claim() = %v %v %v, want all nil", repo, pruned, err)
	}
}
