package inbound

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goroutine"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/shared/event"
)

const defaultConsumerConcurrency = 4

// RegisterMQConsumer starts one consumer per event. An empty
// modules.notification.consumer_names enables all of them.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	h := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.consumer_concurrency")
	if concurrency <= 0 {
		concurrency = defaultConsumerConcurrency
	}

	consumers := []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.BookingCreatedConsumerNotification,
			topic:   event.BookingCreatedDestination,
			handler: h.BookingCreatedNotification,
		},
		{
			name:    event.PropertyPostedConsumerNotification,
			topic:   event.PropertyPostedDestination,
			handler: h.PropertyPostedNotification,
		},
	}

	for _, c := range consumers {
		if len(enabled) > 0 && !slices.Contains(enabled, c.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			err := consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
			if errors.Is(err, context.Canceled) || errors.Is(err, messaging.ErrClosed) {
				return nil
			}
			return err
		})
	}
}
