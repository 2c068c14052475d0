package errors

var (
	// ErrTimeoutExceeded is returned when graceful timeout period exceeds.
	ErrTimeoutExceeded = New("Timeout exceeded")
	// ErrUnsupportedSCM is returned when the build has no source-control
	// reference or the reference is not a supported system.
	ErrUnsupportedSCM = New("build status notifier requires a supported SCM on the build")
	// ErrMissingCredentials is returned when no credentials were resolved
	// before sending a status notification.
	ErrMissingCredentials = New("credentials could not be found")
	// ErrCredentialNotFound is returned when a credential store has no entry
	// for the requested identifier.
	ErrCredentialNotFound = New("credential not found")
	// ErrInvalidStatusHost is returned when the configured status host is
	// missing or does not start with http.
	ErrInvalidStatusHost = New("please enter full url of host (with http)")
	// ErrNon2xxStatus is returned when the remote status API replies with a
	// non-2xx code.
	ErrNon2xxStatus = New("non 2xx status code")
	// ErrUnparseableRepoURL is returned when owner or repository slug can not
	// be extracted from a remote repository URL.
	ErrUnparseableRepoURL = New("could not extract owner and repository name from the repository URL")
	// ErrInvalidBuildState is returned when a scripted notification carries a
	// state the remote API does not accept.
	ErrInvalidBuildState = New("invalid build state")
)

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}
