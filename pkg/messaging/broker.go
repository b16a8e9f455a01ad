package messaging

import "context"

// Broker carries ledger and search events to the downstream contact
// workflow. Implementations must be safe for concurrent use.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
