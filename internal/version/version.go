// Package version holds build information injected at link time.
package version

import (
	"fmt"

	"github.com/aatumaykin/taskpool/internal/constants"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

// SetInfo overrides the build information. Empty values are ignored.
func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// Summary returns a one-line description of the build.
func Summary() string {
	return fmt.Sprintf("taskpool %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, GoVersion)
}
