// Package buildinfo exposes the phylolayout release metadata printed by
// "phylolayout --version" and logged at debug level on startup.
//
// Release builds stamp the values through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/phylolayout/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/phylolayout/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/phylolayout/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/phylolayout
//
// Local builds keep the placeholders below.
package buildinfo

import "fmt"

// Build metadata for the phylolayout binary.
var (
	Version = "dev"     // release tag
	Commit  = "none"    // git revision
	Date    = "unknown" // UTC build time, RFC 3339
)

// String reports the metadata one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template for the phylolayout root command.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
