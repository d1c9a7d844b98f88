// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/figslides/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/figslides/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/figslides/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"
)

// APIVersion is the version reported by the HTTP health endpoint. It tracks
// the request and response contract, not the binary.
const APIVersion = "1.0.0"

var (
	// Version is the release tag, e.g. "v1.2.3".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies figslides in outbound requests and document metadata.
func UserAgent() string {
	return "figslides/" + strings.TrimPrefix(Version, "v")
}
