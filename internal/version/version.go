// Package version exposes the build identity stamped in at link time.
package version

// Stamped by the release build via -ldflags "-X ...". A plain `go build`
// leaves the dev defaults in place.
var (
	// Version is the semantic release tag.
	Version = "dev"
	// Commit is the short git hash of the build.
	Commit = "unknown"
	// Date is the UTC build timestamp.
	Date = "unknown"
)
