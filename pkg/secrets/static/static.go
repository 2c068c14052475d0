// Package static implements a credential store backed by the service
// configuration file.
package static

import (
	"context"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

type store struct {
	logger      lumber.Logger
	credentials map[string]config.Credential
}

// New returns a credential store serving the identifiers configured under
// the credentials section.
func New(cfg *config.Config, logger lumber.Logger) core.CredentialStore {
	return &store{
		logger:      logger,
		credentials: cfg.Credentials,
	}
}

func (s *store) Get(_ context.Context, id string) (*core.Credentials, error) {
	entry, ok := s.credentials[id]
	if !ok {
		s.logger.Debugf("no static credential entry for id %s", id)
		return nil, errs.ErrCredentialNotFound
	}
	return &core.Credentials{
		Username: entry.Username,
		Secret:   entry.Secret,
	}, nil
}
