// Package version exposes the build version of starproxy.
package version

// Current is the build version, overridden at link time via
// -ldflags "-X starproxy/internal/shared/version.Current=...".
var Current = "dev"
