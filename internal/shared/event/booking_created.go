package event

const BookingCreatedDestination string = "booking_created"
const BookingCreatedConsumerNotification string = "booking_created_notification"

type BookingCreatedMessage struct {
	EventID          string  `json:"event_id"`
	BookingID        string  `json:"booking_id"`
	PropertyTitle    string  `json:"property_title"`
	PropertyLocation string  `json:"property_location"`
	CustomerName     string  `json:"customer_name"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerPhone    string  `json:"customer_phone,omitempty"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	Guests           int     `json:"guests"`
	TotalPrice       float64 `json:"total_price"`
	Notes            string  `json:"notes,omitempty"`
}
