package inbound

import (
	"github.com/shandysiswandi/estatenotify/internal/notification/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// NotifyBooking queues booking notifications for the admin and the customer.
// @Summary Notify booking
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body NotifyBookingRequest true "Booking"
// @Success 202 {object} router.successResponse{data=NotifyResponse}
// @Failure 400 {object} router.errorResponse
// @Router /api/notify-booking [post]
func (h *HTTPEndpoint) NotifyBooking(r *router.Request) (any, error) {
	var req NotifyBookingRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.NotifyBooking(r.Context(), usecase.NotifyBookingInput{
		BookingID:        req.BookingID,
		PropertyTitle:    req.PropertyTitle,
		PropertyLocation: req.PropertyLocation,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Guests:           req.Guests,
		TotalPrice:       req.TotalPrice,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, err
	}

	return NotifyResponse{EventID: out.EventID}, nil
}

// NotifyPropertyPost queues the admin notification for a new listing.
// @Summary Notify property post
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body NotifyPropertyPostRequest true "Property"
// @Success 202 {object} router.successResponse{data=NotifyResponse}
// @Failure 400 {object} router.errorResponse
// @Router /api/notify-property-post [post]
func (h *HTTPEndpoint) NotifyPropertyPost(r *router.Request) (any, error) {
	var req NotifyPropertyPostRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.NotifyPropertyPost(r.Context(), usecase.NotifyPropertyPostInput{
		PropertyID:   req.PropertyID,
		Title:        req.Title,
		Location:     req.Location,
		Price:        req.Price,
		PropertyType: req.PropertyType,
		OwnerName:    req.OwnerName,
		OwnerEmail:   req.OwnerEmail,
		OwnerPhone:   req.OwnerPhone,
	})
	if err != nil {
		return nil, err
	}

	return NotifyResponse{EventID: out.EventID}, nil
}
