package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"go.opentelemetry.io/otel/codes"
)

const dateLayout = "2006-01-02"

type NotifyBookingInput struct {
	BookingID        string  `validate:"required"`
	PropertyTitle    string  `validate:"required"`
	PropertyLocation string  `validate:"required"`
	CustomerName     string  `validate:"required"`
	CustomerEmail    string  `validate:"required,email"`
	CustomerPhone    string  `validate:"omitempty,e164"`
	CheckIn          string  `validate:"required,datetime=2006-01-02"`
	CheckOut         string  `validate:"required,datetime=2006-01-02"`
	Guests           int     `validate:"gt=0"`
	TotalPrice       float64 `validate:"gte=0"`
	Notes            string  `validate:"max=1000"`
}

type NotifyPropertyPostInput struct {
	PropertyID   string  `validate:"required"`
	Title        string  `validate:"required"`
	Location     string  `validate:"required"`
	Price        float64 `validate:"gte=0"`
	PropertyType string  `validate:"required"`
	OwnerName    string  `validate:"required"`
	OwnerEmail   string  `validate:"required,email"`
	OwnerPhone   string  `validate:"omitempty,e164"`
}

type NotifyOutput struct {
	EventID string
}

// NotifyBooking publishes a booking_created event. Delivery happens in the
// consumer, so a success here only means the event was accepted.
func (s *Usecase) NotifyBooking(ctx context.Context, in NotifyBookingInput) (*NotifyOutput, error) {
	ctx, span := s.startSpan(ctx, "NotifyBooking")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// both dates already passed the datetime rule
	checkIn, _ := time.Parse(dateLayout, in.CheckIn)   //nolint:errcheck // validated
	checkOut, _ := time.Parse(dateLayout, in.CheckOut) //nolint:errcheck // validated
	if !checkOut.After(checkIn) {
		return nil, goerror.NewInvalidInput(nil, "check_out", "check_out must be after check_in")
	}

	b := entity.Booking{
		EventID:          s.uuid.Generate(),
		BookingID:        in.BookingID,
		PropertyTitle:    in.PropertyTitle,
		PropertyLocation: in.PropertyLocation,
		CustomerName:     in.CustomerName,
		CustomerEmail:    in.CustomerEmail,
		CustomerPhone:    in.CustomerPhone,
		CheckIn:          in.CheckIn,
		CheckOut:         in.CheckOut,
		Guests:           in.Guests,
		TotalPrice:       in.TotalPrice,
		Notes:            in.Notes,
	}

	if err := s.repoMessaging.PublishBookingCreated(ctx, b); err != nil {
		slog.ErrorContext(ctx, "failed to publish booking created", "booking_id", b.BookingID, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "booking notification queued", "event_id", b.EventID, "booking_id", b.BookingID)

	return &NotifyOutput{EventID: b.EventID}, nil
}

func (s *Usecase) NotifyPropertyPost(ctx context.Context, in NotifyPropertyPostInput) (*NotifyOutput, error) {
	ctx, span := s.startSpan(ctx, "NotifyPropertyPost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	p := entity.PropertyPost{
		EventID:      s.uuid.Generate(),
		PropertyID:   in.PropertyID,
		Title:        in.Title,
		Location:     in.Location,
		Price:        in.Price,
		PropertyType: in.PropertyType,
		OwnerName:    in.OwnerName,
		OwnerEmail:   in.OwnerEmail,
		OwnerPhone:   in.OwnerPhone,
	}

	if err := s.repoMessaging.PublishPropertyPosted(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to publish property posted", "property_id", p.PropertyID, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "property post notification queued", "event_id", p.EventID, "property_id", p.PropertyID)

	return &NotifyOutput{EventID: p.EventID}, nil
}
