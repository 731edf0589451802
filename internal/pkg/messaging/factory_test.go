package messaging_test

import (
	"context"
	"testing"

	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	ctx := context.Background()

	m, err := messaging.NewFromDriver(ctx, "", messaging.FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &messaging.Local{}, m)
	require.NoError(t, m.Close())

	m, err = messaging.NewFromDriver(ctx, " local ", messaging.FactoryOptions{})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = messaging.NewFromDriver(ctx, "rabbitmq", messaging.FactoryOptions{})
	assert.ErrorIs(t, err, messaging.ErrUnknownDriver)

	_, err = messaging.NewFromDriver(ctx, messaging.DriverKafka, messaging.FactoryOptions{})
	assert.ErrorIs(t, err, messaging.ErrKafkaBrokersRequired)

	_, err = messaging.NewFromDriver(ctx, messaging.DriverNATS, messaging.FactoryOptions{})
	assert.ErrorIs(t, err, messaging.ErrNATSURLRequired)

	_, err = messaging.NewFromDriver(ctx, messaging.DriverGooglePubSub, messaging.FactoryOptions{})
	assert.ErrorIs(t, err, messaging.ErrPubSubProjectIDRequired)
}

func TestNSQ_RequiresAddresses(t *testing.T) {
	n, err := messaging.NewNSQ(messaging.NSQConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })

	_, err = n.Publish(context.Background(), "t", messaging.OutgoingMessage{})
	assert.ErrorIs(t, err, messaging.ErrNSQProducerAddrRequired)

	err = n.Consume(context.Background(), "t", func(context.Context, messaging.Message) error { return nil })
	assert.ErrorIs(t, err, messaging.ErrNSQConsumerAddrsRequired)
}

func TestKafka_Validation(t *testing.T) {
	k, err := messaging.NewKafka(messaging.KafkaConfig{Brokers: []string{"127.0.0.1:1"}})
	require.NoError(t, err)

	_, err = k.Publish(context.Background(), "", messaging.OutgoingMessage{})
	assert.ErrorIs(t, err, messaging.ErrDestinationRequired)
	assert.ErrorIs(t, k.Consume(context.Background(), "t", nil), messaging.ErrHandlerRequired)

	require.NoError(t, k.Close())
	_, err = k.Publish(context.Background(), "t", messaging.OutgoingMessage{})
	assert.ErrorIs(t, err, messaging.ErrClosed)
}
