package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the module version of a released build, or
// "devel-<VERSION>[+rev][-dirty]" for a local one.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return versionOf(strings.TrimSpace(embeddedVersion), info)
}

func versionOf(base string, info *debug.BuildInfo) string {
	if info == nil {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(7, len(s.Value))]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	v := "devel-" + base
	if rev != "" {
		v += "+" + rev
	}
	if dirty {
		v += "-dirty"
	}
	return v
}
