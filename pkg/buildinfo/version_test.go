package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "unstamped",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			want: Info{Version: "v0.4.0", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v1.0.0", Commit: "fff", Date: "today"},
			want: Info{Version: "v1.0.0", Commit: "fff", Date: "today"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.in, bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFillDevelModule(t *testing.T) {
	got := fill(Info{Version: "dev"}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}
}

func TestCacheScope(t *testing.T) {
	scope := CacheScope()
	if !strings.HasSuffix(scope, ":") || scope == ":" {
		t.Errorf("CacheScope() = %q", scope)
	}
}

func TestTemplate(t *testing.T) {
	if tpl := Template(); !strings.HasPrefix(tpl, "{{.Name}} version ") {
		t.Errorf("Template() = %q", tpl)
	}
}
