// Package credentials implements the ordered credential lookup used by the
// notification entry points.
package credentials

import (
	"context"
	"errors"

	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
)

// Resolve returns the first credentials that resolve, trying the job-scoped
// identifier first and the global default second. A nil result with a nil
// error means neither identifier produced credentials; any store failure
// other than a missing entry is returned as is.
func Resolve(ctx context.Context, store core.CredentialStore, jobScopedID, globalID string) (*core.Credentials, error) {
	for _, id := range []string{jobScopedID, globalID} {
		if id == "" {
			continue
		}
		creds, err := store.Get(ctx, id)
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, errs.ErrCredentialNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
