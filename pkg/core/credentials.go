package core

import "context"

// Credentials is a username/secret pair borrowed from a credential store for
// the duration of one request.
type Credentials struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// CredentialStore resolves a named credential identifier to a
// username/secret pair.
type CredentialStore interface {
	// Get returns the credentials stored under the given identifier,
	// errs.ErrCredentialNotFound when no entry exists.
	Get(ctx context.Context, id string) (*Credentials, error)
}
