// Package hostvalidator implements the allow-list policy for remote
// repository hosts and the validation of the configured status host.
package hostvalidator

import (
	"fmt"
	"net/url"
	"strings"

	errs "github.com/stashnotify/stashnotify/pkg/errors"
)

// Validator matches remote repository hosts against the configured status
// API host.
type Validator struct{}

// New returns a new host validator.
func New() *Validator {
	return &Validator{}
}

// IsValid reports whether the remote host belongs to the configured status
// host, by exact match or dot-boundary suffix match.
func (v *Validator) IsValid(remoteHost, statusHost string) bool {
	want := normalizeHost(hostOf(statusHost))
	got := normalizeHost(remoteHost)
	if want == "" || got == "" {
		return false
	}
	return got == want || strings.HasSuffix(got, "."+want)
}

// RenderError returns the build log line written when a remote is dropped by
// the allow-list.
func (v *Validator) RenderError(statusHost string) string {
	return fmt.Sprintf("Ignoring remote repository: not hosted on %s", statusHost)
}

// ValidateHost checks a configured status host value. The host must be a
// full url starting with http.
func (v *Validator) ValidateHost(statusHost string) error {
	if !strings.HasPrefix(statusHost, "http") {
		return errs.ErrInvalidStatusHost
	}
	return nil
}

func hostOf(statusHost string) string {
	u, err := url.Parse(statusHost)
	if err != nil || u.Host == "" {
		return statusHost
	}
	return u.Host
}

// normalizeHost lowercases the host and strips a port suffix.
func normalizeHost(host string) string {
	host = strings.ToLower(host)
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i+1:], "]") {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}
