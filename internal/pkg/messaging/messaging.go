package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrDestinationRequired is returned when a topic, subject or subscription name is empty.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: client is closed")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source.
//
// Consume blocks until ctx is canceled or the client is closed. A handler
// returning nil acks the message; an error nacks it so the broker may
// redeliver.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	Body []byte
	// Key is used for partitioning where the broker supports it.
	Key     []byte
	Headers map[string]string
}

// PublishResult carries what the broker reported back.
type PublishResult struct {
	MessageID   string
	Destination string
	Timestamp   time.Time
}

// Message is a received message.
type Message interface {
	ID() string
	Body() []byte
	Headers() map[string]string
	// Attempts is 1 on first delivery and grows on redelivery, when the broker tracks it.
	Attempts() int
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
