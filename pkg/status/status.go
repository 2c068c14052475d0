// Package status derives the wire status snapshot of a build.
package status

import (
	"fmt"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/keys"
)

// StateForResult maps a job engine build result to the remote API state. ok
// is false when the result maps to no defined status, in which case the
// state field is omitted from the payload.
func StateForResult(result core.BuildResult) (state core.BuildState, ok bool) {
	switch result {
	case "":
		// no result yet, the build is still running
		return core.StateInProgress, true
	case core.ResultSuccess:
		return core.StateSuccessful, true
	case core.ResultUnstable, core.ResultFailure, core.ResultAborted:
		return core.StateFailed, true
	default:
		// NOT_BUILT and anything unknown
		return "", false
	}
}

// ParseState validates a caller-supplied build state string.
func ParseState(s string) (core.BuildState, error) {
	switch core.BuildState(s) {
	case core.StateInProgress, core.StateSuccessful, core.StateFailed:
		return core.BuildState(s), nil
	default:
		return "", errs.ErrInvalidBuildState
	}
}

// Description returns the test summary line of a build, empty when the
// engine collected no test results.
func Description(build *core.Build) string {
	if build.Tests == nil {
		return ""
	}
	passed := build.Tests.Total - build.Tests.Failed
	return fmt.Sprintf("%d of %d tests passed", passed, build.Tests.Total)
}

// FromBuild derives the status snapshot posted for a build under the
// selected addressing mode.
func FromBuild(build *core.Build, overrideLatestBuild bool) core.BuildStatus {
	state, _ := StateForResult(build.Result)
	key, name := keys.ForBuild(build, overrideLatestBuild)
	return core.BuildStatus{
		State:       state,
		Key:         key,
		URL:         build.URL,
		Name:        name,
		Description: Description(build),
	}
}
