// Package scm resolves the commit to repository mapping of a build from its
// source-control reference.
package scm

import (
	"net/url"
	"os"
	"strings"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/hostvalidator"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

// scmAdapter lists the remotes of one source reference. One implementation
// exists per supported version-control system.
type scmAdapter interface {
	remotes(ref *core.SCMRef) []core.Remote
}

func adapterFor(kind core.SCMKind) (scmAdapter, bool) {
	switch kind {
	case core.SCMGit:
		return gitAdapter{}, true
	default:
		return nil, false
	}
}

type locator struct {
	logger    lumber.Logger
	validator *hostvalidator.Validator
}

// New returns a commit locator resolving builds against the configured
// status host.
func New(logger lumber.Logger) core.CommitLocator {
	return &locator{
		logger:    logger,
		validator: hostvalidator.New(),
	}
}

func (l *locator) ResolveCommitRepoMap(build *core.Build, statusHost string, buildLog core.BuildLog) (core.CommitRepoMap, error) {
	refs, err := l.collectRefs(build, buildLog)
	if err != nil {
		return nil, err
	}

	crm := core.CommitRepoMap{}
	for _, ref := range refs {
		adapter, ok := adapterFor(ref.Kind)
		if !ok {
			return nil, errs.ErrUnsupportedSCM
		}
		for _, remote := range adapter.remotes(ref) {
			repoURL := expandEnv(remote.URL, build.Env)
			repoURL = strings.TrimSuffix(repoURL, "/")

			if !l.validator.IsValid(remoteHost(repoURL), statusHost) {
				l.logger.Infof("dropping remote %s of job %s: host not allow-listed", repoURL, build.JobFullName)
				buildLog.Printf("%s", l.validator.RenderError(statusHost))
				continue
			}
			if remote.CommitID == "" {
				l.logger.Infof("commit id could not be found for remote %s of job %s", repoURL, build.JobFullName)
				buildLog.Printf("Skipping %s: commit ID could not be found", repoURL)
				continue
			}
			crm = append(crm, core.CommitRepoEntry{CommitID: remote.CommitID, RepoURL: repoURL})
		}
	}
	return crm, nil
}

// collectRefs gathers the source references to resolve. Pipeline jobs
// contribute both the branch's own SCM binding and the explicit pipeline
// script definition; an empty result there is a configuration error reported
// to the build log, not a failure.
func (l *locator) collectRefs(build *core.Build, buildLog core.BuildLog) ([]*core.SCMRef, error) {
	if build.Pipeline {
		refs := []*core.SCMRef{}
		if build.SCM != nil {
			refs = append(refs, build.SCM)
		}
		if build.PipelineSCM != nil {
			refs = append(refs, build.PipelineSCM)
		}
		if len(refs) == 0 {
			l.logger.Warnf("no SCM attached to pipeline job %s", build.JobFullName)
			buildLog.Printf("Not supported project: pipeline job has no SCM attached")
		}
		return refs, nil
	}
	if build.SCM == nil {
		return nil, errs.ErrUnsupportedSCM
	}
	return []*core.SCMRef{build.SCM}, nil
}

// expandEnv expands ${VAR} and $VAR placeholders in a remote URL with the
// build's environment, leaving unknown variables untouched.
func expandEnv(repoURL string, env map[string]string) string {
	if env == nil {
		return repoURL
	}
	return os.Expand(repoURL, func(key string) string {
		if value, ok := env[key]; ok {
			return value
		}
		return "${" + key + "}"
	})
}

func remoteHost(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil {
		return ""
	}
	return u.Host
}
