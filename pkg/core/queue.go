package core

import "context"

// QueueConsumer consumes messages from a message queue.
type QueueConsumer interface {
	// Run starts the consumer loop, returning when the context is canceled.
	Run(ctx context.Context)
	// Close closes the underlying reader.
	Close() error
}
