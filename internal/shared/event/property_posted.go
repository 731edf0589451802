package event

const PropertyPostedDestination string = "property_posted"
const PropertyPostedConsumerNotification string = "property_posted_notification"

type PropertyPostedMessage struct {
	EventID      string  `json:"event_id"`
	PropertyID   string  `json:"property_id"`
	Title        string  `json:"title"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	PropertyType string  `json:"property_type"`
	OwnerName    string  `json:"owner_name"`
	OwnerEmail   string  `json:"owner_email"`
	OwnerPhone   string  `json:"owner_phone,omitempty"`
}
