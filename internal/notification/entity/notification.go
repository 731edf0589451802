package entity

import "errors"

// ErrChannelUnavailable is returned by a sender whose provider is not configured.
var ErrChannelUnavailable = errors.New("notification: channel not configured")

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func (c Channel) String() string { return string(c) }

// Audience says who a delivery is addressed to.
type Audience string

const (
	AudienceAdmin    Audience = "admin"
	AudienceCustomer Audience = "customer"
)

type Booking struct {
	EventID          string
	BookingID        string
	PropertyTitle    string
	PropertyLocation string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CheckIn          string
	CheckOut         string
	Guests           int
	TotalPrice       float64
	Notes            string
}

type PropertyPost struct {
	EventID      string
	PropertyID   string
	Title        string
	Location     string
	Price        float64
	PropertyType string
	OwnerName    string
	OwnerEmail   string
	OwnerPhone   string
}

// Delivery is one message on one channel to one recipient.
type Delivery struct {
	Channel  Channel
	Audience Audience
	To       string
	Subject  string
	Text     string
	HTML     string
}

// Key identifies the delivery within an event for deduplication.
func (d Delivery) Key(eventID string) string {
	return eventID + ":" + string(d.Channel) + ":" + string(d.Audience)
}
