package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyOTPInput struct {
	Identifier string `validate:"required"`
	OTP        string `validate:"required,otpcode"`
	// Consume spends the code on success. A check without consuming leaves
	// it usable for a later step such as ResetPassword.
	Consume bool
}

func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	_, err := s.store.Verify(in.Identifier, in.OTP, s.clock.Now(), in.Consume)
	s.recordVerify(ctx, "verify", err)
	if err != nil {
		slog.WarnContext(ctx, "otp verification failed", "identifier", in.Identifier, "consume", in.Consume, "error", err)
		return otpError(err)
	}

	return nil
}

// otpError maps store outcomes to caller-facing errors.
func otpError(err error) error {
	switch {
	case errors.Is(err, entity.ErrOTPNotFound):
		return goerror.NewBusinessCause(err, "OTP not found or already used. Please request a new one.", goerror.CodeInvalidInput)
	case errors.Is(err, entity.ErrOTPExpired):
		return goerror.NewBusinessCause(err, "OTP has expired. Please request a new one.", goerror.CodeInvalidInput)
	case errors.Is(err, entity.ErrOTPMismatch):
		return goerror.NewBusinessCause(err, "Invalid OTP. Please try again.", goerror.CodeInvalidInput)
	default:
		return goerror.NewServer(err)
	}
}

func (s *Usecase) recordVerify(ctx context.Context, op string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrOTPNotFound):
		outcome = "not_found"
	case errors.Is(err, entity.ErrOTPExpired):
		outcome = "expired"
	case errors.Is(err, entity.ErrOTPMismatch):
		outcome = "mismatch"
	default:
		outcome = "error"
	}

	s.verified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
