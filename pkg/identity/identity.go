// Package identity extracts the owner and repository slug from remote
// repository URLs.
package identity

import (
	"net/url"
	"strings"

	errs "github.com/stashnotify/stashnotify/pkg/errors"
)

// Parse extracts the owner/organization segment and the repository slug from
// a remote repository URL. The slug is the path component after the last
// slash with a trailing ".git" removed, the owner is the component directly
// left of the slug. URLs with deeper group prefixes keep only that one
// component. Fails with errs.ErrUnparseableRepoURL when either value is
// empty.
func Parse(repoURL string) (owner, slug string, err error) {
	path := repoURL
	if u, perr := url.Parse(repoURL); perr == nil && u.Host != "" {
		path = u.Path
	}
	path = strings.TrimSuffix(path, "/")

	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", "", errs.ErrUnparseableRepoURL
	}
	slug = strings.TrimSuffix(path[idx+1:], ".git")

	owner = path[:idx]
	if j := strings.LastIndex(owner, "/"); j >= 0 {
		owner = owner[j+1:]
	}

	if owner == "" || slug == "" {
		return "", "", errs.ErrUnparseableRepoURL
	}
	return owner, slug, nil
}
