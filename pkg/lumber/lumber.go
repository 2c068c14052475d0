package lumber

import (
	"errors"
)

// instance types of the logger implementations.
const (
	// InstanceZapLogger zap logger instance.
	InstanceZapLogger int = iota
)

var errInvalidLoggerInstance = errors.New("invalid logger instance")

// Logger is the common logging interface used across the service.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// LoggingConfig stores the config for the logger.
type LoggingConfig struct {
	EnableConsole     bool
	ConsoleJSONFormat bool
	ConsoleLevel      string
	EnableFile        bool
	FileJSONFormat    bool
	FileLevel         string
	FileLocation      string
}

// NewLogger returns a logger instance of the requested implementation.
func NewLogger(config *LoggingConfig, verbose bool, loggerInstance int) (Logger, error) {
	switch loggerInstance {
	case InstanceZapLogger:
		logger, err := newZapLogger(config, verbose)
		if err != nil {
			return nil, err
		}
		return logger, nil
	default:
		return nil, errInvalidLoggerInstance
	}
}
