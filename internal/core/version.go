package core

import (
	"runtime/debug"
	"strings"
)

// Version is the build version, resolved once at startup. Tagged builds get
// the module version; local builds fall back to the VCS commit.
var Version = resolveVersion()

func resolveVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	// Pseudo-versions (untagged local builds in Go 1.24+) are skipped in
	// favor of the shorter VCS commit form below.
	if v := info.Main.Version; v != "" && v != "(devel)" && !isPseudoVersion(v) {
		return v
	}

	var commit string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if commit == "" {
		return "devel"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if dirty {
		return "devel-" + commit + "-dirty"
	}
	return "devel-" + commit
}

// FormatVersion formats the version string for display: tagged releases have
// the "v" prefix stripped, devel versions pass through as-is.
func FormatVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isPseudoVersion reports whether v looks like a Go module pseudo-version,
// i.e. ends with a 12-character hex commit hash.
func isPseudoVersion(v string) bool {
	if build := strings.IndexByte(v, '+'); build >= 0 {
		v = v[:build]
	}
	dash := strings.LastIndexByte(v, '-')
	if dash < 0 {
		return false
	}
	hash := v[dash+1:]
	if len(hash) != 12 {
		return false
	}
	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
