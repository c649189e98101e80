package app

import "fmt"

// Set with -ldflags "-X github.com/heartmarshall/exegesis-backend/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is the version line shown by botctl --version and the server
// start-up log.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}
