package core

// CommitLocator resolves the commits and remote repository URLs a build was
// built from, filtered to remotes hosted on the configured status host.
type CommitLocator interface {
	// ResolveCommitRepoMap returns one entry per allow-listed remote of the
	// build's source reference. It fails with errs.ErrUnsupportedSCM when the
	// reference is absent or not a supported system; every other resolution
	// issue is reported on the build log and degrades to a partial or empty
	// map.
	ResolveCommitRepoMap(build *Build, statusHost string, buildLog BuildLog) (CommitRepoMap, error)
}
