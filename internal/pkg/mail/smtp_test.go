package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTP_MissingHost(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Port: 587})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	_, err = NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestSMTP_Build(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@estate.example.com", FromName: "Estate"})
	require.NoError(t, err)

	t.Run("no recipients", func(t *testing.T) {
		_, err := s.build(Message{Subject: "x"})
		assert.ErrorIs(t, err, ErrSMTPNoRecipients)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		_, err := s.build(Message{To: []string{"not an address"}})
		assert.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		m, err := s.build(Message{
			To:       []string{"alice@example.com"},
			Bcc:      []string{"audit@example.com"},
			Subject:  "Your verification code",
			TextBody: "1234",
			HTMLBody: "<b>1234</b>",
		})
		require.NoError(t, err)
		assert.NotNil(t, m)
	})
}

func TestSMTP_Build_NoSender(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 25})
	require.NoError(t, err)

	_, err = s.build(Message{To: []string{"alice@example.com"}})
	assert.ErrorIs(t, err, ErrSMTPNoSender)
}

func TestDisabled(t *testing.T) {
	var m Mail = Disabled{}
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNotConfigured)
	assert.NoError(t, m.Close())
}
