// Package version provides build information for the telemetry dashboard.
package version

// These variables are set via ldflags during build
//
//nolint:gochecknoglobals // These are intentionally global for ldflags injection
var (
	version = "dev"
	buildID = "dev"
)

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// GetFullVersion returns version with build ID
func GetFullVersion() string {
	return version + " (build: " + buildID + ")"
}

// UserAgent is sent on every outbound API request.
func UserAgent(component string) string {
	return "telemetry-dashboard-" + component + "/" + version
}
