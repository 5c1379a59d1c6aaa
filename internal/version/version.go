package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String renders the full build identity for the -version flag.
func String() string {
	return fmt.Sprintf("cellmon version %s\nCommit: %s\nBuilt: %s", Version, CommitHash, BuildDate)
}
