// Package buildinfo exposes the version stamped into the binary by the linker.
package buildinfo

import (
	"fmt"
	"io"
)

// Set via ldflags, e.g.
// go build -ldflags "-X github.com/dmitrijs2005/babelx/internal/buildinfo.Version=1.0.0"
var (
	Version   = "N/A"
	Commit    = "N/A"
	BuildDate = "N/A"
)

// String formats the build data for startup logs.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// PrintBuildData writes the build data to w, one field per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
