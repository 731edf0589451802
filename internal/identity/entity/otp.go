package entity

import (
	"errors"
	"time"
)

var (
	ErrOTPNotFound = errors.New("identity: otp not found")
	ErrOTPExpired  = errors.New("identity: otp expired")
	ErrOTPMismatch = errors.New("identity: otp mismatch")

	// ErrDeliveryFailure means the code was stored but the email did not go out.
	ErrDeliveryFailure = errors.New("identity: otp delivery failed")

	ErrIdentityProviderUnavailable = errors.New("identity: identity provider unavailable")
	ErrUserNotFound                = errors.New("identity: user not found")
	ErrUpdateFailed                = errors.New("identity: credential update failed")
)

// OTP is the single active one-time code of an identifier.
type OTP struct {
	Identifier string
	Code       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// ValidAt reports whether the code is still usable at now. Expiry is strict:
// at ExpiresAt the code is already expired.
func (o OTP) ValidAt(now time.Time) bool {
	return now.Before(o.ExpiresAt)
}

// SameIssue reports whether o and other come from the same IssueCode call.
func (o OTP) SameIssue(other OTP) bool {
	return o.Identifier == other.Identifier && o.Code == other.Code && o.IssuedAt.Equal(other.IssuedAt)
}

// IdentityUser is the account record of the external identity provider.
type IdentityUser struct {
	UID   string
	Email string
}
