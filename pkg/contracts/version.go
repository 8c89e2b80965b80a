// Package contracts holds cross-cutting contract values shared between
// the pipeline and its consumers.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the pipeline.
	Version = "0.1.0"

	// DataFormatVersion is the version of the report/database schema.
	DataFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags.
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags.
	GitCommit = "unknown"
)

// VersionString returns a single-line version description for logs.
func VersionString() string {
	return fmt.Sprintf("salespipe %s (data format %s, %s, %s/%s)",
		Version, DataFormatVersion, GitCommit, runtime.GOOS, runtime.GOARCH)
}
