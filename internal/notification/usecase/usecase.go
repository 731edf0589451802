package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/idempotency"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBase       = 500 * time.Millisecond
	defaultDeliveryTimeout = 10 * time.Second
)

type repoMessaging interface {
	PublishBookingCreated(ctx context.Context, b entity.Booking) error
	PublishPropertyPosted(ctx context.Context, p entity.PropertyPost) error
}

type sender interface {
	Send(ctx context.Context, d entity.Delivery) error
}

type dedupe interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...idempotency.Option) error
}

type Usecase struct {
	repoMessaging repoMessaging
	repoMail      sender
	repoSMS       sender
	dedupe        dedupe
	validator     validator.Validator
	cfg           config.Config
	uuid          uid.StringID
	ins           instrument.Instrumentation

	delivered metric.Int64Counter
}

type Dependency struct {
	RepoMessaging repoMessaging
	RepoMail      sender
	RepoSMS       sender
	Idempotency   dedupe
	Validator     validator.Validator
	Config        config.Config
	UUID          uid.StringID
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	delivered := instrument.Counter(dep.Instrument.Meter("notification.usecase"),
		"notification.delivery", "Notification deliveries by channel, audience and outcome.")

	return &Usecase{
		repoMessaging: dep.RepoMessaging,
		repoMail:      dep.RepoMail,
		repoSMS:       dep.RepoSMS,
		dedupe:        dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uuid:          dep.UUID,
		ins:           dep.Instrument,
		delivered:     delivered,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) adminEmail() string { return s.cfg.GetString("notification.admin.email") }

func (s *Usecase) adminPhone() string { return s.cfg.GetString("notification.admin.phone") }

func (s *Usecase) retryAttempts() int {
	if n := s.cfg.GetInt("modules.notification.retry_attempts"); n > 0 {
		return n
	}
	return defaultRetryAttempts
}

func (s *Usecase) retryBase() time.Duration {
	if d := s.cfg.GetMillisecond("modules.notification.retry_base_ms"); d > 0 {
		return d
	}
	return defaultRetryBase
}

func (s *Usecase) deliveryTimeout() time.Duration {
	if d := s.cfg.GetSecond("modules.notification.delivery_timeout_seconds"); d > 0 {
		return d
	}
	return defaultDeliveryTimeout
}
