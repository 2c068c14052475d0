package core

// BuildState is a state value accepted by the remote build-status API.
type BuildState string

// states defined by the remote build-status API. An empty state is
// serialized with the state field omitted.
const (
	StateInProgress BuildState = "INPROGRESS"
	StateSuccessful BuildState = "SUCCESSFUL"
	StateFailed     BuildState = "FAILED"
)

// BuildStatus is the snapshot of one build's outcome posted to the remote
// status API.
type BuildStatus struct {
	State       BuildState `json:"state,omitempty"`
	Key         string     `json:"key"`
	URL         string     `json:"url"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// WithKey returns a copy of the status carrying the given key. Used for
// continuation, so the shared status value is never mutated in place.
func (s BuildStatus) WithKey(key string) BuildStatus {
	s.Key = key
	return s
}

// StatusResource binds a commit on a repository to the concrete REST
// endpoint its build status is posted to.
type StatusResource struct {
	Host     string
	Owner    string
	RepoSlug string
	CommitID string
}

// EndpointURL returns the status API endpoint for the commit.
func (r StatusResource) EndpointURL() string {
	return r.Host + "/rest/build-status/1.0/commits/" + r.CommitID
}

// CommitRepoEntry pairs a resolved commit id with the remote repository URL
// it was built from.
type CommitRepoEntry struct {
	CommitID string
	RepoURL  string
}

// CommitRepoMap holds the commit to repository resolution of one build, one
// entry per configured remote. Built fresh per notification call.
type CommitRepoMap []CommitRepoEntry

// HasCommit reports whether any entry resolved to the given commit id.
func (m CommitRepoMap) HasCommit(commitID string) bool {
	for _, entry := range m {
		if entry.CommitID == commitID {
			return true
		}
	}
	return false
}
