package util

// Version holds the application version.
// It will be set via ldflags during build.
var Version = "0.1.0" // Default version

// GitCommit holds the Git commit hash.
// It will be set via ldflags during build.
var GitCommit = "unknown"

// UserAgent identifies this tool in generated metadata ("created by").
func UserAgent() string {
	return "sitetorrent/" + Version
}
