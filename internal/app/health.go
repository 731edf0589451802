package app

import (
	"time"

	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
)

type HealthResponse struct {
	Status                     string    `json:"status"`
	Time                       time.Time `json:"time"`
	EmailConfigured            bool      `json:"emailConfigured"`
	SMSConfigured              bool      `json:"smsConfigured"`
	IdentityProviderConfigured bool      `json:"identityProviderConfigured"`
}

func (HealthResponse) Message() string { return "Service is healthy" }

func (r HealthResponse) Data() any { return r }

// health reports liveness and which providers have credentials. It never
// calls the providers.
// @Summary Health
// @Tags App
// @Produce json
// @Success 200 {object} router.successResponse{data=HealthResponse}
// @Router /api/health [get]
func (a *App) health(r *router.Request) (any, error) {
	return HealthResponse{
		Status:                     "ok",
		Time:                       a.clock.Now().UTC(),
		EmailConfigured:            a.mailConfigured,
		SMSConfigured:              a.smsConfigured,
		IdentityProviderConfigured: a.identityProviderConfigured,
	}, nil
}
