package inbound

import (
	"context"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/notification/usecase"
)

type uc interface {
	NotifyBooking(ctx context.Context, in usecase.NotifyBookingInput) (*usecase.NotifyOutput, error)
	NotifyPropertyPost(ctx context.Context, in usecase.NotifyPropertyPostInput) (*usecase.NotifyOutput, error)

	ConsumeBookingCreated(ctx context.Context, b entity.Booking) error
	ConsumePropertyPosted(ctx context.Context, p entity.PropertyPost) error
}
