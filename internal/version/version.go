// Package version holds the build version of vulegen.
package version

// Version is set at build time via
// -ldflags "-X github.com/NielsdaWheelz/vulegen/internal/version.Version=...".
var Version = "dev"
