package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrTwilioCredentialsRequired is returned when the account sid, auth token or sender is missing.
var ErrTwilioCredentialsRequired = errors.New("twilio account sid, auth token and from number are required")

// TwilioConfig configures the Twilio implementation.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From is the Twilio phone number messages are sent from.
	From string
}

type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// Twilio is an SMS implementation backed by the Twilio REST API.
type Twilio struct {
	from string
	api  messageCreator
}

func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, ErrTwilioCredentialsRequired
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Twilio{from: cfg.From, api: client.Api}, nil
}

// Send posts the message to Twilio. The SDK call has no context, so ctx only
// bounds how long the caller waits for it.
func (t *Twilio) Send(ctx context.Context, msg Message) (string, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return "", ErrNoRecipient
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", ErrEmptyBody
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(msg.Body)

	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := t.api.CreateMessage(params)
		if err != nil {
			done <- result{err: fmt.Errorf("twilio create message: %w", err)}
			return
		}

		var sid string
		if resp != nil && resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- result{sid: sid}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.sid, r.err
	}
}

func (t *Twilio) Close() error {
	return nil
}
