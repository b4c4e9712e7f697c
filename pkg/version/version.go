// Package version exposes the build metadata stamped into the reposnap
// binary at link time.
package version

import (
	"fmt"
	"runtime"
)

// Overridden via -ldflags, for example:
//
//	go build -ldflags "-X reposnap/pkg/version.Version=0.3.0 -X reposnap/pkg/version.Commit=4f9c1aa"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a point-in-time view of the binary's build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the stamped build metadata plus the runtime Go version and
// platform.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the single-line form printed by the version command.
func (i Info) String() string {
	return fmt.Sprintf("reposnap version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}
