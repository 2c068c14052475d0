// Package vault implements a credential store backed by a vault KV v2
// mount. Each credential identifier maps to a secret holding a username and
// a secret field.
package vault

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/vault/api"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/constants"
	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

type store struct {
	logger     lumber.Logger
	client     *api.Client
	pathPrefix string
}

// New returns a vault backed credential store.
func New(cfg *config.Config, logger lumber.Logger) (core.CredentialStore, error) {
	client, err := api.NewClient(&api.Config{Address: cfg.Vault.Address})
	if err != nil {
		logger.Errorf("failed to create vault client for address %s, error: %v", cfg.Vault.Address, err)
		return nil, err
	}
	if cfg.Vault.Token != "" {
		client.SetToken(cfg.Vault.Token)
	}
	if cfg.Vault.Namespace != "" {
		client.SetNamespace(cfg.Vault.Namespace)
	}
	pathPrefix := cfg.Vault.PathPrefix
	if pathPrefix == "" {
		pathPrefix = "secret"
	}
	return &store{
		logger:     logger,
		client:     client,
		pathPrefix: pathPrefix,
	}, nil
}

func (s *store) Get(ctx context.Context, id string) (*core.Credentials, error) {
	path := fmt.Sprintf("%s/data/%s", s.pathPrefix, id)

	var secret *api.Secret
	// transient vault failures are retried with backoff
	err := retry.Do(func() error {
		var rerr error
		secret, rerr = s.client.Logical().Read(path)
		return rerr
	},
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Attempts(constants.VaultMaxRetries),
		retry.Delay(constants.VaultRetryDelay),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Errorf("vault read of %s retry %d, error: %+v", path, n, err)
		}))
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.Data == nil {
		return nil, errs.ErrCredentialNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, errs.ErrCredentialNotFound
	}
	username, _ := data["username"].(string)
	password, _ := data["secret"].(string)
	if username == "" || password == "" {
		s.logger.Errorf("vault secret at %s is missing username or secret fields", path)
		return nil, errs.ErrCredentialNotFound
	}
	return &core.Credentials{Username: username, Secret: password}, nil
}
