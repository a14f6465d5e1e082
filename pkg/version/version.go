// Package version carries the build identity stamped into station and
// sensorsim binaries via -ldflags; it feeds the build-info metric.
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func GetVersion() string {
	return Version
}

// GetBuildInfo returns version, git commit and build date in that order.
func GetBuildInfo() (version, commit, date string) {
	return Version, GitCommit, BuildDate
}
