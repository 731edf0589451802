package inbound

import "github.com/shandysiswandi/estatenotify/internal/pkg/router"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/notify-booking", end.NotifyBooking)
	r.POST("/api/notify-property-post", end.NotifyPropertyPost)
}
