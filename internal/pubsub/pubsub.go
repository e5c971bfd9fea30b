// Package pubsub carries form diagnostics from the request path to their
// subscribers without making the request wait on them.
package pubsub

import (
	"context"
)

// Message is one diagnostic record in flight. Payload holds the JSON of a
// typed event such as form.Event; Topic names the event it encodes.
type Message struct {
	Topic string
	// UserID is the login the failed submission was made with, if any.
	UserID   string
	Payload  []byte
	Metadata map[string]string
}

// Handler consumes one message. A returned error is logged and the message
// dropped; nothing is retried.
type Handler func(ctx context.Context, msg Message) error

// Publisher is what the submission reporter writes to.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber is what the diagnostics listener reads from. Subscribe returns
// once the subscription is live and delivers in the background until ctx is
// canceled or the bus is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
