package mail

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned by Disabled for every send.
var ErrNotConfigured = errors.New("mail sender is not configured")

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; the implementation default is used when empty.
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Disabled stands in for a provider when no credentials are configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrNotConfigured }

func (Disabled) Close() error { return nil }
