// Package version holds build metadata for the bfcheck binary.
package version

import (
	"runtime/debug"
)

const (
	unknown       = "<unknown>"
	develVersion  = "(devel)"
	revisionKey   = "vcs.revision"
	timeKey       = "vcs.time"
	shortHashSize = 12
)

// Build metadata, normally injected with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Version, Commit and Date from the embedded Go build
// info when they were not injected at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != develVersion {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case revisionKey:
			if Commit == unknown {
				Commit = shorten(setting.Value)
			}
		case timeKey:
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

func shorten(hash string) string {
	if len(hash) > shortHashSize {
		return hash[:shortHashSize]
	}

	return hash
}
