package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	raw, err := encodeEnvelope(OutgoingMessage{Body: []byte(`{"a":1}`), Headers: map[string]string{"cID": "x"}})
	require.NoError(t, err)

	headers, body := decodeEnvelope(raw)
	assert.Equal(t, map[string]string{"cID": "x"}, headers)
	assert.Equal(t, `{"a":1}`, string(body))

	headers, body = decodeEnvelope([]byte("plain text"))
	assert.Nil(t, headers)
	assert.Equal(t, "plain text", string(body))
}

func TestMessage_SettlesOnce(t *testing.T) {
	acks, nacks := 0, 0
	m := &message{
		ack:  func(context.Context) error { acks++; return nil },
		nack: func(context.Context) error { nacks++; return nil },
	}

	require.NoError(t, m.Ack(t.Context()))
	require.NoError(t, m.Nack(t.Context()))
	require.NoError(t, m.Ack(t.Context()))
	assert.Equal(t, 1, acks)
	assert.Equal(t, 0, nacks)
}
