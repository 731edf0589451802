package sms

import (
	"context"
	"errors"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	client sms.SMS
	ins    instrument.Instrumentation
}

func New(client sms.SMS, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

func (s *SMS) Send(ctx context.Context, d entity.Delivery) error {
	ctx, span := s.ins.Tracer("notification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	sid, err := s.client.Send(ctx, sms.Message{To: d.To, Body: d.Text})
	if errors.Is(err, sms.ErrNotConfigured) {
		return entity.ErrChannelUnavailable
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.String("notification.audience", string(d.Audience)),
		attribute.String("sms.sid", sid),
	)

	return nil
}
