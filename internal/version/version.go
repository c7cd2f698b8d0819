// Package version reports build metadata injected with -ldflags -X.
package version

import "fmt"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String formats the build metadata for `promptboard version`.
func String() string {
	return fmt.Sprintf("promptboard version %s\nCommit: %s\nBuilt: %s\n", Version, CommitHash, BuildDate)
}
