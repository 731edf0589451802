package sms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	got   *twilioapi.CreateMessageParams
	sid   string
	err   error
	delay time.Duration
}

func (f *fakeCreator) CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error) {
	f.got = params
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &twilioapi.ApiV2010Message{Sid: &f.sid}, nil
}

func TestNewTwilio_MissingCredentials(t *testing.T) {
	_, err := NewTwilio(TwilioConfig{AccountSID: "AC1", AuthToken: "tok"})
	assert.ErrorIs(t, err, ErrTwilioCredentialsRequired)
}

func TestTwilio_Send(t *testing.T) {
	fake := &fakeCreator{sid: "SM123"}
	tw := &Twilio{from: "+15550000000", api: fake}

	sid, err := tw.Send(context.Background(), Message{To: " +15551234567 ", Body: "New booking"})
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	require.NotNil(t, fake.got)
	assert.Equal(t, "+15551234567", *fake.got.To)
	assert.Equal(t, "+15550000000", *fake.got.From)
	assert.Equal(t, "New booking", *fake.got.Body)
}

func TestTwilio_Send_Validation(t *testing.T) {
	tw := &Twilio{from: "+15550000000", api: &fakeCreator{}}

	_, err := tw.Send(context.Background(), Message{Body: "x"})
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = tw.Send(context.Background(), Message{To: "+15551234567"})
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestTwilio_Send_ProviderError(t *testing.T) {
	providerErr := errors.New("21211 invalid 'To' phone number")
	tw := &Twilio{from: "+15550000000", api: &fakeCreator{err: providerErr}}

	_, err := tw.Send(context.Background(), Message{To: "+1", Body: "x"})
	assert.ErrorIs(t, err, providerErr)
}

func TestTwilio_Send_ContextDeadline(t *testing.T) {
	tw := &Twilio{from: "+15550000000", api: &fakeCreator{delay: 200 * time.Millisecond}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tw.Send(ctx, Message{To: "+15551234567", Body: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
