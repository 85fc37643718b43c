package version

var (
	// Version is the current application version.
	// Populated by the build system (ldflags) or falls back to this default.
	Version = "v0.3.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
