package version

// Version is the current version of the stratdsl library.
// This value can be overridden at build time using ldflags:
// -ldflags "-X github.com/quantlab-oss/stratdsl/internal/version.Version=v1.2.3"
// The value "main" indicates a development build and skips schema
// compatibility checks.
var Version = "v1.0.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
