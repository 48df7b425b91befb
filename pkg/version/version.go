// Package version exposes the build version.
package version

// version is set at build time via -ldflags.
var version = "0.1.0-dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}
