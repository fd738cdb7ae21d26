package server

import (
	"fmt"
	"runtime"
	"time"
)

// Build information that should be set at compile time via ldflags
var (
	// Version is the git commit hash
	Version = "dev"
	// BuildTime is when the binary was built
	BuildTime = "unknown"
	// GoVersion is the version of Go used to build
	GoVersion = runtime.Version()
)

// VersionInfo contains information about the current build and the
// catalog it is serving.
type VersionInfo struct {
	Version   string       `json:"version"`
	BuildTime string       `json:"build_time"`
	GoVersion string       `json:"go_version"`
	Uptime    string       `json:"uptime"`
	Catalog   *CatalogInfo `json:"catalog,omitempty"`
	StartTime time.Time    `json:"-"`
}

type CatalogInfo struct {
	Source   string    `json:"source"`
	ETag     string    `json:"etag"`
	Stations int       `json:"stations"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

var startTime = time.Now()

// GetVersionInfo returns the current version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		StartTime: startTime,
	}
}

// GetVersionString returns a short version string for headers
func GetVersionString() string {
	if Version == "dev" {
		// Changes on each restart so dev builds never serve stale ETags
		return fmt.Sprintf("dev-%d-%s", startTime.Unix(), GoVersion)
	}
	return Version
}
