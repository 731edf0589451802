package email

import (
	"context"
	"errors"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, d entity.Delivery) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("notification.audience", string(d.Audience)))

	err := m.client.Send(ctx, mail.Message{
		To:       []string{d.To},
		Subject:  d.Subject,
		TextBody: d.Text,
		HTMLBody: d.HTML,
	})
	if errors.Is(err, mail.ErrNotConfigured) {
		return entity.ErrChannelUnavailable
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
