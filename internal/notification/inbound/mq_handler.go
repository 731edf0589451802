package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers map[string]string) context.Context {
	if id := headers[keyOfCorrelationID]; id != "" {
		return instrument.SetCorrelationID(ctx, id)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// BookingCreatedNotification handles booking_created. Undecodable payloads are
// acked and dropped since redelivery cannot fix them.
func (h *MQHandler) BookingCreatedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "BookingCreatedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: booking created notification", "msg_id", msg.ID(), "attempts", msg.Attempts())

	var payload event.BookingCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of booking created notification", "msg_body", string(body), "error", err)
		return nil
	}
	if payload.EventID == "" {
		payload.EventID = msg.ID()
	}

	if err := h.uc.ConsumeBookingCreated(ctx, entity.Booking{
		EventID:          payload.EventID,
		BookingID:        payload.BookingID,
		PropertyTitle:    payload.PropertyTitle,
		PropertyLocation: payload.PropertyLocation,
		CustomerName:     payload.CustomerName,
		CustomerEmail:    payload.CustomerEmail,
		CustomerPhone:    payload.CustomerPhone,
		CheckIn:          payload.CheckIn,
		CheckOut:         payload.CheckOut,
		Guests:           payload.Guests,
		TotalPrice:       payload.TotalPrice,
		Notes:            payload.Notes,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume booking created", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PropertyPostedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PropertyPostedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: property posted notification", "msg_id", msg.ID(), "attempts", msg.Attempts())

	var payload event.PropertyPostedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of property posted notification", "msg_body", string(body), "error", err)
		return nil
	}
	if payload.EventID == "" {
		payload.EventID = msg.ID()
	}

	if err := h.uc.ConsumePropertyPosted(ctx, entity.PropertyPost{
		EventID:      payload.EventID,
		PropertyID:   payload.PropertyID,
		Title:        payload.Title,
		Location:     payload.Location,
		Price:        payload.Price,
		PropertyType: payload.PropertyType,
		OwnerName:    payload.OwnerName,
		OwnerEmail:   payload.OwnerEmail,
		OwnerPhone:   payload.OwnerPhone,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume property posted", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
