package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/idempotency"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// deliver sends each delivery on its own, so one failing channel does not
// hold back the others. Deliveries are deduplicated per event, channel and
// audience: on redelivery of the event only the ones that failed are sent
// again. The returned error joins the failures.
func (s *Usecase) deliver(ctx context.Context, eventID string, deliveries []entity.Delivery) error {
	var errs []error
	for _, d := range deliveries {
		if d.To == "" {
			continue
		}

		err := s.dedupe.Exec(ctx, d.Key(eventID), func(ctx context.Context) error {
			return s.sendWithRetry(ctx, d)
		})

		outcome := "sent"
		switch {
		case err == nil:
			slog.InfoContext(ctx, "notification delivered", "event_id", eventID, "channel", d.Channel, "audience", d.Audience)
		case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
			outcome = "duplicate"
			slog.InfoContext(ctx, "notification already handled", "event_id", eventID, "channel", d.Channel, "audience", d.Audience)
		case errors.Is(err, entity.ErrChannelUnavailable):
			outcome = "skipped"
			slog.WarnContext(ctx, "notification channel not configured", "event_id", eventID, "channel", d.Channel, "audience", d.Audience)
		default:
			outcome = "failed"
			slog.ErrorContext(ctx, "failed to deliver notification", "event_id", eventID, "channel", d.Channel, "audience", d.Audience, "error", err)
			errs = append(errs, fmt.Errorf("%s to %s: %w", d.Channel, d.Audience, err))
		}

		s.delivered.Add(ctx, 1, metric.WithAttributes(
			attribute.String("channel", d.Channel.String()),
			attribute.String("audience", string(d.Audience)),
			attribute.String("outcome", outcome),
		))
	}

	return errors.Join(errs...)
}

func (s *Usecase) sendWithRetry(ctx context.Context, d entity.Delivery) error {
	snd := s.repoMail
	if d.Channel == entity.ChannelSMS {
		snd = s.repoSMS
	}

	attempts := s.retryAttempts()
	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(s.retryBase()))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout())
		defer cancel()

		err := snd.Send(sendCtx, d)
		if err == nil || errors.Is(err, entity.ErrChannelUnavailable) {
			return err
		}

		slog.WarnContext(ctx, "notification attempt failed", "channel", d.Channel, "audience", d.Audience, "attempt", attempt, "max_attempts", attempts, "error", err)
		return retry.RetryableError(err)
	})
}
