package core

// BuildResult is the terminal result reported by the job engine for a build.
// An empty result means the build is still in progress.
type BuildResult string

// build results supplied by the job engine.
const (
	ResultSuccess  BuildResult = "SUCCESS"
	ResultUnstable BuildResult = "UNSTABLE"
	ResultFailure  BuildResult = "FAILURE"
	ResultNotBuilt BuildResult = "NOT_BUILT"
	ResultAborted  BuildResult = "ABORTED"
)

// SCMKind identifies the version-control system of a source reference.
type SCMKind string

// supported version-control systems.
const (
	SCMGit SCMKind = "git"
)

// Remote is one remote repository configured on a build's source reference.
type Remote struct {
	// URL is the remote repository URL, may contain environment-variable
	// placeholders that are expanded with the build's environment.
	URL string `json:"url"`
	// CommitID is the commit built from this remote.
	CommitID string `json:"commitId"`
}

// SCMRef is the checked-out source reference a build ran against.
type SCMRef struct {
	Kind    SCMKind  `json:"kind"`
	Remotes []Remote `json:"remotes"`
}

// TestSummary carries the test counters of a finished build.
type TestSummary struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

// Build is the metadata snapshot of one run of a job, supplied by the
// job-execution engine. It is read-only for the duration of a notification.
type Build struct {
	JobFullName string            `json:"jobFullName"`
	Number      int               `json:"number"`
	URL         string            `json:"url"`
	Result      BuildResult       `json:"result,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	// Pipeline marks multi-branch/pipeline jobs, whose remotes are collected
	// from both the branch SCM binding and the pipeline script definition.
	Pipeline bool `json:"pipeline,omitempty"`
	// SCM is the branch's own source-control binding.
	SCM *SCMRef `json:"scm,omitempty"`
	// PipelineSCM is the explicit "load pipeline script from SCM" definition.
	PipelineSCM *SCMRef `json:"pipelineScm,omitempty"`
	// Previous is the immediately preceding build of the same job, if any.
	Previous *Build `json:"previousBuild,omitempty"`
	// Tests is the test result summary, if the engine collected one.
	Tests *TestSummary `json:"testSummary,omitempty"`
}
