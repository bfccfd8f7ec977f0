package version

import (
	"runtime/debug"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGet_LinkTimeValuesWin(t *testing.T) {
	defer saveAndRestore()()
	Version = "0.2.0"
	GitCommit = "abcdef0123456"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "0.2.0" {
		t.Errorf("got version %q", info.Version)
	}
	if info.Commit != "abcdef0" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.Commit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("got build time %q", info.BuildTime)
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890"},
			{Key: "vcs.time", Value: "2026-02-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var info Info
	info.fill(bi)
	if info.Commit != "1234567890" || info.BuildTime != "2026-02-01T00:00:00Z" || !info.Dirty {
		t.Errorf("unexpected info %+v", info)
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("got go version %q", info.GoVersion)
	}

	stamped := Info{Commit: "fromldflags"}
	stamped.fill(bi)
	if stamped.Commit != "fromldflags" {
		t.Errorf("build info overwrote stamped commit: %q", stamped.Commit)
	}
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", Commit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", Commit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestInfo_IsRelease(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{Version: "dev"}, false},
		{Info{Version: "1.0.0"}, true},
		{Info{Version: "1.0.0", Dirty: true}, false},
		{Info{Version: "1.0.0-dirty"}, false},
	}
	for _, tt := range tests {
		if got := tt.info.IsRelease(); got != tt.want {
			t.Errorf("%+v: got %v, want %v", tt.info, got, tt.want)
		}
	}
}

func TestInfo_Fields(t *testing.T) {
	f := Info{Version: "1.0.0", Commit: "abc"}.Fields()
	if f["version"] != "1.0.0" || f["commit"] != "abc" {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := f["build_time"]; ok {
		t.Error("empty build time should be omitted")
	}
}
