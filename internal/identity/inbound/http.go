package inbound

import (
	"context"

	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/send-otp", end.SendOTP)
	r.POST("/api/verify-otp", end.VerifyOTP)
	r.POST("/api/reset-password", end.ResetPassword)
}
