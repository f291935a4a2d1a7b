// Package version carries build-stamped identifiers. The release build
// overrides the vars with -ldflags "-X".
package version

import "fmt"

// SourceApp identifies this module in trace headers.
const SourceApp = "steadycursor"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a one-line description for -version flags.
func String() string {
	return fmt.Sprintf("%s %s (%s, built %s)", SourceApp, Version, GitSHA, BuildTime)
}
