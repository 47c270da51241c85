// Package maitre provides the version information for maitre.
package maitre

// Version is the current version of maitre.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
