package usecase

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
)

// ConsumeBookingCreated notifies the admin and the customer about a booking.
// A non-nil error means at least one delivery failed and the event should be
// redelivered; deliveries that already went out are not repeated.
func (s *Usecase) ConsumeBookingCreated(ctx context.Context, b entity.Booking) error {
	ctx, span := s.startSpan(ctx, "ConsumeBookingCreated")
	defer span.End()

	deliveries := make([]entity.Delivery, 0, 4)

	admin, err := renderMail(tplBookingAdmin, b)
	if err != nil {
		return fmt.Errorf("render booking admin email: %w", err)
	}
	admin.Audience, admin.To = entity.AudienceAdmin, s.adminEmail()
	admin.Subject = "New booking: " + b.PropertyTitle
	deliveries = append(deliveries, admin)

	customer, err := renderMail(tplBookingCustomer, b)
	if err != nil {
		return fmt.Errorf("render booking customer email: %w", err)
	}
	customer.Audience, customer.To = entity.AudienceCustomer, b.CustomerEmail
	customer.Subject = "Your booking for " + b.PropertyTitle
	deliveries = append(deliveries, customer)

	deliveries = append(deliveries,
		entity.Delivery{
			Channel:  entity.ChannelSMS,
			Audience: entity.AudienceAdmin,
			To:       s.adminPhone(),
			Text: fmt.Sprintf("New booking %s: %s for %s, %s to %s, %d guests, total %.2f.",
				b.BookingID, b.PropertyTitle, b.CustomerName, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice),
		},
		entity.Delivery{
			Channel:  entity.ChannelSMS,
			Audience: entity.AudienceCustomer,
			To:       b.CustomerPhone,
			Text: fmt.Sprintf("Hi %s, your booking for %s (%s to %s) is received. Booking ID: %s.",
				b.CustomerName, b.PropertyTitle, b.CheckIn, b.CheckOut, b.BookingID),
		},
	)

	if err := s.deliver(ctx, b.EventID, deliveries); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// ConsumePropertyPosted notifies the admin about a new listing.
func (s *Usecase) ConsumePropertyPosted(ctx context.Context, p entity.PropertyPost) error {
	ctx, span := s.startSpan(ctx, "ConsumePropertyPosted")
	defer span.End()

	admin, err := renderMail(tplPropertyAdmin, p)
	if err != nil {
		return fmt.Errorf("render property admin email: %w", err)
	}
	admin.Audience, admin.To = entity.AudienceAdmin, s.adminEmail()
	admin.Subject = "New property posted: " + p.Title

	deliveries := []entity.Delivery{
		admin,
		{
			Channel:  entity.ChannelSMS,
			Audience: entity.AudienceAdmin,
			To:       s.adminPhone(),
			Text: fmt.Sprintf("New %s listed: %s in %s at %.2f by %s.",
				p.PropertyType, p.Title, p.Location, p.Price, p.OwnerName),
		},
	}

	if err := s.deliver(ctx, p.EventID, deliveries); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
