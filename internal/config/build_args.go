package config

import "fmt"

// ModuleName is the name of the executable's module, used as the service's
// name in logs and the version string.
const ModuleName = "evm-agent"

// These variables are set at buildtime via ldflags.
var (
	Commit    = "local"
	BuildDate = "1970-01-01T00:00:00+00:00"
)

// GetFormattedBuildArgs returns the module name, commit and build date as a
// single human-readable version line.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
