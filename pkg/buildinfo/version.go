// Package buildinfo reports the version causaltower was built from. The
// values are stamped by the release build:
//
//	go build -ldflags "-X github.com/matzehuels/causaltower/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/causaltower/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/causaltower/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Stamped by -ldflags; local builds keep the defaults.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as served by the API health check.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Dev reports whether the binary was built without a version stamp.
func (i Info) Dev() bool { return i.Version == "dev" }

// Template is the cobra version template.
func Template() string {
	i := Get()
	s := fmt.Sprintf("{{.Name}} %s\n", i.Version)
	if !i.Dev() {
		s += fmt.Sprintf("commit %s, built %s\n", i.Commit, i.Date)
	}
	return s
}
