package sms

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotConfigured is returned by Disabled for every send.
	ErrNotConfigured = errors.New("sms sender is not configured")
	// ErrNoRecipient is returned when Message.To is empty.
	ErrNoRecipient = errors.New("sms recipient is required")
	// ErrEmptyBody is returned when Message.Body is empty.
	ErrEmptyBody = errors.New("sms body is required")
)

// Message is a single text message.
type Message struct {
	// To is an E.164 phone number.
	To   string
	Body string
}

// SMS abstracts a text message provider.
type SMS interface {
	io.Closer
	// Send delivers msg and returns the provider message id.
	Send(ctx context.Context, msg Message) (string, error)
}

// Disabled stands in for a provider when no credentials are configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (string, error) { return "", ErrNotConfigured }

func (Disabled) Close() error { return nil }
