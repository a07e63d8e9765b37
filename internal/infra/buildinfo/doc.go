// Package buildinfo exposes build-time version information.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/Bollo444/SyncSphere-sub004/internal/infra/buildinfo.Version=v1.2.0"
//
// GoVersion is taken from the running toolchain. The values surface in
// the version endpoint, CLI --version output, and startup logs.
package buildinfo
