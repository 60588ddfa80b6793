// Package version holds build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/Dicklesworthstone/responsive_scopes/pkg/version.Version=v0.2.0"
package version

import "fmt"

var (
	// Version is the release tag of this build.
	Version = "v0.1.0"
	// Commit is the source revision of this build.
	Commit = "unknown"
)

// String renders the version for display.
func String() string {
	if Commit == "" || Commit == "unknown" {
		return "rscopes " + Version
	}
	return fmt.Sprintf("rscopes %s (%s)", Version, Commit)
}
