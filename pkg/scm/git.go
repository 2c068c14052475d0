package scm

import "github.com/stashnotify/stashnotify/pkg/core"

// gitAdapter resolves git source references. The job engine has already
// recorded the built commit per remote, so the adapter only surfaces them.
type gitAdapter struct{}

func (gitAdapter) remotes(ref *core.SCMRef) []core.Remote {
	return ref.Remotes
}
