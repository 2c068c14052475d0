// Package notifier orchestrates build status notifications: commit
// resolution, identity extraction, continuation handling and delivery.
package notifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/identity"
	"github.com/stashnotify/stashnotify/pkg/keys"
	"github.com/stashnotify/stashnotify/pkg/lumber"
	"github.com/stashnotify/stashnotify/pkg/status"
)

type service struct {
	locator core.CommitLocator
	sender  core.StatusSender
	logger  lumber.Logger
}

// New returns a new build status notifier.
func New(locator core.CommitLocator, sender core.StatusSender, logger lumber.Logger) core.Notifier {
	return &service{
		locator: locator,
		sender:  sender,
		logger:  logger,
	}
}

// Notify posts the build's status once per resolved repository. Only an
// unsupported source-control reference and missing credentials abort the
// attempt; every other failure is reported on the build log and processing
// continues with the remaining repositories.
func (s *service) Notify(ctx context.Context, req *core.NotifyRequest, buildLog core.BuildLog) error {
	build := req.Build

	crm, err := s.locator.ResolveCommitRepoMap(build, req.StatusHost, buildLog)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve repositories for job %s", build.JobFullName)
	}

	prevCRM := s.resolveAbortedPrevious(build, req.StatusHost, buildLog)

	outgoing := req.Status
	if outgoing == nil {
		derived := status.FromBuild(build, req.OverrideLatestBuild)
		outgoing = &derived
	}

	for _, entry := range crm {
		owner, repoSlug, perr := identity.Parse(entry.RepoURL)
		if perr != nil {
			s.logger.Infof("could not extract repository identity from %s, error: %v", entry.RepoURL, perr)
			buildLog.Printf("Skipping %s: %v", entry.RepoURL, perr)
			continue
		}

		resource := core.StatusResource{
			Host:     req.StatusHost,
			Owner:    owner,
			RepoSlug: repoSlug,
			CommitID: entry.CommitID,
		}

		current := *outgoing
		// the previous build was aborted on the same commit, reuse its key so
		// the stale status is replaced instead of duplicated
		if prevCRM.HasCommit(entry.CommitID) {
			prevKey, _ := keys.ForBuild(build.Previous, req.OverrideLatestBuild)
			current = current.WithKey(prevKey)
		}

		// explicit overrides from the scripted entry point, the derived owner
		// is preserved
		if req.RepoSlug != "" && req.CommitID != "" {
			resource = core.StatusResource{
				Host:     req.StatusHost,
				Owner:    owner,
				RepoSlug: req.RepoSlug,
				CommitID: req.CommitID,
			}
		}

		resp, serr := s.sender.Send(ctx, req.Credentials, resource, current)
		if serr != nil {
			if errors.Is(serr, errs.ErrMissingCredentials) {
				return serr
			}
			s.logger.Errorf("failed to send build status for commit %s of %s/%s, error: %v",
				resource.CommitID, resource.Owner, resource.RepoSlug, serr)
			if resp != nil {
				buildLog.Printf("Sending build status for commit %s failed with http status code: %d", resource.CommitID, resp.StatusCode)
			} else {
				buildLog.Printf("Sending build status for commit %s failed: %v", resource.CommitID, serr)
			}
			continue
		}

		buildLog.Printf("Sending build status %s for commit %s is done!", current.State, resource.CommitID)
		buildLog.Printf("Sent build status with http status code: %d", resp.StatusCode)
	}
	return nil
}

// resolveAbortedPrevious returns the commit repo map of the previous build
// when it was aborted. Best effort, failures are logged and swallowed.
func (s *service) resolveAbortedPrevious(build *core.Build, statusHost string, buildLog core.BuildLog) core.CommitRepoMap {
	prev := build.Previous
	if prev == nil || prev.Result != core.ResultAborted {
		return nil
	}
	prevCRM, err := s.locator.ResolveCommitRepoMap(prev, statusHost, buildLog)
	if err != nil {
		s.logger.Infof("could not resolve repositories of aborted previous build %s #%d, error: %v",
			prev.JobFullName, prev.Number, err)
		return nil
	}
	return prevCRM
}
