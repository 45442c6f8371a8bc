// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI, server and store
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for deepclock components
const (
	// Application version
	App = "1.0.0"

	// Component versions
	Server = "1.0.0"
	Store  = "1.0.0"
	TUI    = "1.0.0"

	// API is the path prefix version of the HTTP surface
	API = "v1"

	// SchemaVersion is the sqlite schema revision written by the store
	SchemaVersion = 1
)

// Set at build time via -ldflags "-X ..."
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "server":
		return Server
	case "store":
		return Store
	case "tui":
		return TUI
	default:
		return App
	}
}

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   App,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
