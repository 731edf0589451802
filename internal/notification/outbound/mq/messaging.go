package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/shandysiswandi/estatenotify/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// KeyOfCorrelationID is the message header carrying the request correlation id.
const KeyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishBookingCreated(ctx context.Context, b entity.Booking) error {
	return m.publish(ctx, "PublishBookingCreated", event.BookingCreatedDestination, b.BookingID, event.BookingCreatedMessage{
		EventID:          b.EventID,
		BookingID:        b.BookingID,
		PropertyTitle:    b.PropertyTitle,
		PropertyLocation: b.PropertyLocation,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Guests:           b.Guests,
		TotalPrice:       b.TotalPrice,
		Notes:            b.Notes,
	})
}

func (m *Messaging) PublishPropertyPosted(ctx context.Context, p entity.PropertyPost) error {
	return m.publish(ctx, "PublishPropertyPosted", event.PropertyPostedDestination, p.PropertyID, event.PropertyPostedMessage{
		EventID:      p.EventID,
		PropertyID:   p.PropertyID,
		Title:        p.Title,
		Location:     p.Location,
		Price:        p.Price,
		PropertyType: p.PropertyType,
		OwnerName:    p.OwnerName,
		OwnerEmail:   p.OwnerEmail,
		OwnerPhone:   p.OwnerPhone,
	})
}

func (m *Messaging) publish(ctx context.Context, op, destination, key string, payload any) error {
	ctx, span := m.ins.Tracer("notification.outbound.mq").Start(ctx, op)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(key),
		Headers: map[string]string{KeyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
