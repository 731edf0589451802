package inbound

import "net/http"

type NotifyBookingRequest struct {
	BookingID        string  `json:"bookingId"`
	PropertyTitle    string  `json:"propertyTitle"`
	PropertyLocation string  `json:"propertyLocation"`
	CustomerName     string  `json:"customerName"`
	CustomerEmail    string  `json:"customerEmail"`
	CustomerPhone    string  `json:"customerPhone"`
	CheckIn          string  `json:"checkIn"`
	CheckOut         string  `json:"checkOut"`
	Guests           int     `json:"guests"`
	TotalPrice       float64 `json:"totalPrice"`
	Notes            string  `json:"notes"`
}

type NotifyPropertyPostRequest struct {
	PropertyID   string  `json:"propertyId"`
	Title        string  `json:"title"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	PropertyType string  `json:"propertyType"`
	OwnerName    string  `json:"ownerName"`
	OwnerEmail   string  `json:"ownerEmail"`
	OwnerPhone   string  `json:"ownerPhone"`
}

type NotifyResponse struct {
	EventID string `json:"eventId"`
}

func (NotifyResponse) StatusCode() int { return http.StatusAccepted }

func (NotifyResponse) Message() string { return "Notification queued" }

func (r NotifyResponse) Data() any { return r }
