// Package build holds build-time information.
package build

// Build information. Populated at build time via -ldflags.
var (
	// Version is the application version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
