// Package buildinfo carries version metadata stamped in at link time.
package buildinfo

var (
	// Version is set with -ldflags "-X .../buildinfo.Version=...".
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
