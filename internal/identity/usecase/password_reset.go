package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	OTP         string `validate:"required,otpcode"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset overwrites the account password once the code checks out.
//
// The code is reserved first, so a concurrent reset or a consuming verify
// with the same code is turned away while the identity provider is updated.
// Only after the update succeeds is the code removed. A failure at the
// provider releases the reservation and leaves the code usable for a retry.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = normalizeIdentifier(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	rec, err := s.store.Reserve(in.Email, in.OTP, s.clock.Now())
	s.recordVerify(ctx, "password_reset", err)
	if err != nil {
		slog.WarnContext(ctx, "password reset rejected at otp check", "identifier", in.Email, "error", err)
		return otpError(err)
	}

	committed := false
	defer func() {
		if !committed {
			s.store.Release(rec)
		}
	}()

	user, err := s.idp.GetUserByEmail(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up user at identity provider", "identifier", in.Email, "error", err)
		return providerError(err)
	}

	if err := s.idp.UpdatePassword(ctx, user.UID, in.NewPassword); err != nil {
		slog.ErrorContext(ctx, "failed to update password at identity provider", "identifier", in.Email, "uid", user.UID, "error", err)
		return providerError(err)
	}

	committed = true
	if !s.store.DeleteIfMatch(rec) {
		slog.InfoContext(ctx, "otp replaced during password reset, newer code kept", "identifier", in.Email)
	}

	slog.InfoContext(ctx, "password reset completed", "identifier", in.Email, "uid", user.UID)

	return nil
}

func providerError(err error) error {
	switch {
	case errors.Is(err, entity.ErrIdentityProviderUnavailable):
		return goerror.NewServerMsg(err, "Password reset is not available right now.", goerror.CodeUnavailable)
	case errors.Is(err, entity.ErrUserNotFound):
		return goerror.NewServerMsg(err, "No account found with this email address.", goerror.CodeInternal)
	default:
		return goerror.NewServerMsg(fmt.Errorf("%w: %w", entity.ErrUpdateFailed, err), "Failed to reset password. Please try again.", goerror.CodeInternal)
	}
}
