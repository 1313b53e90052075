// Package buildinfo holds the freeboard release stamp.
//
// The variables are injected by the release build:
//
//	go build -ldflags "-X github.com/matzehuels/freeboard/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/freeboard/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/freeboard/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/freeboard
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// String returns the stamp as printed by "freeboard --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template for the root command.
func Template() string {
	return "{{.Name}} version " + Version + "\n" + "commit: " + Commit + "\nbuilt: " + Date + "\n"
}

// UserAgent identifies freeboard to remote layout endpoints.
func UserAgent() string {
	if len(Commit) >= 7 && Commit != "none" {
		return fmt.Sprintf("freeboard/%s (%s)", Version, Commit[:7])
	}
	return "freeboard/" + Version
}
