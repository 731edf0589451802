package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOTPTTL          = 5 * time.Minute
	defaultDeliveryTimeout = 10 * time.Second
)

type otpStore interface {
	Put(rec entity.OTP)
	Verify(identifier, code string, now time.Time, consume bool) (entity.OTP, error)
	Reserve(identifier, code string, now time.Time) (entity.OTP, error)
	Release(rec entity.OTP)
	DeleteIfMatch(rec entity.OTP) bool
}

type otpMailer interface {
	SendOTP(ctx context.Context, to, code string, validFor time.Duration) error
}

// IdentityProvider is the account backend the password reset writes to.
type IdentityProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.IdentityUser, error)
	UpdatePassword(ctx context.Context, uid, password string) error
}

type Usecase struct {
	store     otpStore
	mailer    otpMailer
	idp       IdentityProvider
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	ins       instrument.Instrumentation

	issued   metric.Int64Counter
	verified metric.Int64Counter
}

type Dependency struct {
	Store            otpStore
	Mailer           otpMailer
	IdentityProvider IdentityProvider
	Validator        validator.Validator
	Config           config.Config
	Clock            clock.Clocker
	Instrument       instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("identity.usecase")
	issued := instrument.Counter(meter, "identity.otp.issued", "One-time codes stored and handed to the mail sender.")
	verified := instrument.Counter(meter, "identity.otp.verified", "One-time code checks by outcome.")

	return &Usecase{
		store:     dep.Store,
		mailer:    dep.Mailer,
		idp:       dep.IdentityProvider,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		issued:    issued,
		verified:  verified,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if d := s.cfg.GetSecond("modules.identity.otp_ttl_seconds"); d > 0 {
		return d
	}
	return defaultOTPTTL
}

func (s *Usecase) deliveryTimeout() time.Duration {
	if d := s.cfg.GetSecond("modules.identity.delivery_timeout_seconds"); d > 0 {
		return d
	}
	return defaultDeliveryTimeout
}

func normalizeIdentifier(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
