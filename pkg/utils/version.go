// Package utils holds small helpers shared across lantern: build
// metadata stamped at link time and string formatting for CLI output.
package utils

// Build metadata, overridden via -ldflags by the release build.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
