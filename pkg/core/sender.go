package core

import "context"

// StatusResponse is the remote API's reply to one status POST. The body is
// kept only for logging, no structured response is parsed.
type StatusResponse struct {
	StatusCode int
	Body       string
}

// StatusSender delivers one build status to the remote status API.
type StatusSender interface {
	// Send posts the status for the resource's commit. It fails with
	// errs.ErrMissingCredentials before any network call when credentials is
	// nil, and with errs.ErrNon2xxStatus (response still returned) on a
	// non-2xx reply. The call is never retried internally.
	Send(ctx context.Context, credentials *Credentials, resource StatusResource, status BuildStatus) (*StatusResponse, error)
}
