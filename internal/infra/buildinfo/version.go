package buildinfo

import (
	"log/slog"
	"runtime"
)

// Set via ldflags at build time.
var (
	// Version is the semantic version.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a single-line version string for CLI output.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}

// LogAttrs returns the build information as slog attributes for the
// startup log line.
func LogAttrs() []slog.Attr {
	info := Get()
	return []slog.Attr{
		slog.String("version", info.Version),
		slog.String("commit", info.Commit),
		slog.String("go_version", info.GoVersion),
	}
}
