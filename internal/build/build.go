// Package build holds version information stamped at build time.
package build

// These are set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
