package core

import "context"

// NotifyRequest carries the per-call inputs of one notification attempt.
// Configuration is passed explicitly, never read from ambient state.
type NotifyRequest struct {
	// Credentials used for the status API calls, nil when none resolved.
	Credentials *Credentials
	// StatusHost is the base URL of the status API host.
	StatusHost string
	// OverrideLatestBuild selects the unique addressing mode, collapsing all
	// builds of the job onto one remote status entry.
	OverrideLatestBuild bool
	// Build is the build being reported.
	Build *Build
	// Status, when set, replaces the status derived from the build. Used by
	// the scripted notification entry point.
	Status *BuildStatus
	// RepoSlug and CommitID, when both set, replace the derived repository
	// slug and commit id on every status resource, preserving the derived
	// owner.
	RepoSlug string
	CommitID string
}

// Notifier reports a build's status to the remote status API, once per
// resolved repository.
type Notifier interface {
	Notify(ctx context.Context, req *NotifyRequest, buildLog BuildLog) error
}
