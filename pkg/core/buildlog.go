package core

// BuildLog receives the human-readable lines echoed to the triggering
// build's own log output, so operators always see why a status update was
// skipped or failed.
type BuildLog interface {
	Printf(format string, args ...interface{})
}

// BuildLogFunc adapts a function to the BuildLog interface.
type BuildLogFunc func(format string, args ...interface{})

// Printf calls the wrapped function.
func (f BuildLogFunc) Printf(format string, args ...interface{}) {
	f(format, args...)
}
