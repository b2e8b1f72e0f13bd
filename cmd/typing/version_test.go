package main

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	settings := func(kv ...string) []debug.BuildSetting {
		var out []debug.BuildSetting
		for i := 0; i < len(kv); i += 2 {
			out = append(out, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return out
	}
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"no build info", nil, "0.1.0"},
		{"released", &debug.BuildInfo{Main: debug.Module{Version: "v0.1.2"}}, "v0.1.2"},
		{"devel", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "devel-0.1.0"},
		{"revision", &debug.BuildInfo{Settings: settings("vcs.revision", "abcdef0123456")}, "devel-0.1.0+abcdef0"},
		{"short revision", &debug.BuildInfo{Settings: settings("vcs.revision", "abc")}, "devel-0.1.0+abc"},
		{"dirty", &debug.BuildInfo{Settings: settings("vcs.revision", "abcdef0123456", "vcs.modified", "true")}, "devel-0.1.0+abcdef0-dirty"},
		{"clean", &debug.BuildInfo{Settings: settings("vcs.modified", "false")}, "devel-0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := versionOf("0.1.0", tt.info); got != tt.want {
				t.Errorf("versionOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
