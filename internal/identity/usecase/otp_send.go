package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"go.opentelemetry.io/otel/codes"
)

const (
	otpMin = 1000
	otpMax = 9999
)

const otpTypeEmail = "email"

type SendOTPInput struct {
	// Type names the requested delivery channel. Any value is accepted and
	// the code always goes out by email.
	Type       string `validate:"omitempty,max=32"`
	Identifier string `validate:"required,email"`
}

type SendOTPOutput struct {
	ExpiresAt time.Time
}

// SendOTP issues a new code for the identifier, replacing any previous one,
// and emails it.
//
// The code is stored before delivery. A failed delivery keeps the stored code
// and is reported as entity.ErrDeliveryFailure.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if t := strings.ToLower(strings.TrimSpace(in.Type)); t != "" && t != otpTypeEmail {
		slog.WarnContext(ctx, "unsupported otp channel requested, sending by email", "identifier", in.Identifier, "type", in.Type)
	}

	code, err := generateCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otpTTL()
	now := s.clock.Now()
	rec := entity.OTP{
		Identifier: in.Identifier,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	s.store.Put(rec)
	s.issued.Add(ctx, 1)

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout())
	defer cancel()

	if err := s.mailer.SendOTP(sendCtx, rec.Identifier, code, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "identifier", rec.Identifier, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServerMsg(
			fmt.Errorf("%w: %w", entity.ErrDeliveryFailure, err),
			"Failed to send OTP email. Please try again.",
			goerror.CodeDeliveryFailed,
		)
	}

	slog.InfoContext(ctx, "otp issued", "identifier", rec.Identifier, "expires_at", rec.ExpiresAt)

	return &SendOTPOutput{ExpiresAt: rec.ExpiresAt}, nil
}

// generateCode returns a uniformly random decimal code in [otpMin, otpMax].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
