// Package buildinfo carries version stamps injected with -ldflags:
//
//	-X csgview/internal/buildinfo.Version=v0.3.0 -X csgview/internal/buildinfo.Commit=$(git rev-parse --short HEAD)
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is what the window title shows: the version when stamped, else the
// commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	default:
		return "dev"
	}
}

// String is the full stamp for the startup log line.
func String() string {
	return fmt.Sprintf("csgview %s (commit %s, built %s)", Version, Commit, Date)
}
