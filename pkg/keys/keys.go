// Package keys derives the key and display name a build's status is
// addressed with on the remote API.
package keys

import (
	"crypto/md5" //nolint:gosec // stable identifier, not used for security
	"encoding/hex"
	"fmt"

	"github.com/stashnotify/stashnotify/pkg/core"
)

// DefaultKey returns the per-build key, unique for every build number of the
// job.
func DefaultKey(jobFullName string, number int) string {
	return hash(fmt.Sprintf("%s#%d", jobFullName, number))
}

// UniqueKey returns the per-job key, stable across all builds of the job.
func UniqueKey(jobFullName string) string {
	return hash(jobFullName)
}

// DefaultName returns the per-build display name.
func DefaultName(jobFullName string, number int) string {
	return fmt.Sprintf("%s #%d", jobFullName, number)
}

// UniqueName returns the per-job display name.
func UniqueName(jobFullName string) string {
	return jobFullName
}

// ForBuild returns the key and name of a build under the selected addressing
// mode.
func ForBuild(build *core.Build, overrideLatestBuild bool) (key, name string) {
	if overrideLatestBuild {
		return UniqueKey(build.JobFullName), UniqueName(build.JobFullName)
	}
	return DefaultKey(build.JobFullName, build.Number), DefaultName(build.JobFullName, build.Number)
}

// hash returns a 32 character hex digest, within the remote API's 40
// character key limit.
func hash(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // see import note
	return hex.EncodeToString(sum[:])
}
