package constants

import "time"

const (
	// ServiceName the service name.
	ServiceName = "stashnotify"
	// BinaryVersion the binary version injected at build time.
	BinaryVersion = "dev"
	// DefaultPort default http server port.
	DefaultPort = "9876"
	// DefaultGracefulTimeout default graceful timeout period.
	DefaultGracefulTimeout = 30 * time.Second
	// DefaultShutDownDelay delay before starting the graceful shutdown.
	DefaultShutDownDelay = 2 * time.Second
	// ConnectTimeout dial timeout for the outbound status API client.
	ConnectTimeout = 30 * time.Second
	// ReadTimeout overall request timeout for the outbound status API client.
	ReadTimeout = 60 * time.Second
	// MaxBuildKeyLength the remote API constraint on the status key length.
	MaxBuildKeyLength = 40
	// KafkaMaxBytes max kafka message size (25MB).
	KafkaMaxBytes = 25e6
	// VaultMaxRetries max retry attempts for transient vault read failures.
	VaultMaxRetries = 3
	// VaultRetryDelay base delay between vault read retries.
	VaultRetryDelay = 500 * time.Millisecond
)
