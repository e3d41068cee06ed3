package events

import "context"

// Publisher announces local changes to the daemon
type Publisher interface {
	SendEvent(event Event) error
}

// Subscriber receives changes made by other processes
type Subscriber interface {
	// Subscribe narrows delivery to one dashboard; "" means all
	Subscribe(dashboardID string) error
	Listen(ctx context.Context) (<-chan Event, error)
}

// EventPublisher is a full daemon connection. Services only publish;
// the arranger also subscribes.
type EventPublisher interface {
	Publisher
	Subscriber
	Connect(ctx context.Context) error
	Close() error
}

var _ EventPublisher = (*Client)(nil)
