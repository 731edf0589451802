package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/estatenotify/internal/notification/entity"
	"github.com/shandysiswandi/estatenotify/internal/notification/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/idempotency"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMessaging struct {
	mock.Mock
}

func (m *mockMessaging) PublishBookingCreated(ctx context.Context, b entity.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockMessaging) PublishPropertyPosted(ctx context.Context, p entity.PropertyPost) error {
	return m.Called(ctx, p).Error(0)
}

// recordingSender fails the first failures[to] sends to an address.
type recordingSender struct {
	mu       sync.Mutex
	sent     []entity.Delivery
	attempts map[string]int
	failures map[string]int
	err      error
}

func (r *recordingSender) Send(_ context.Context, d entity.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.attempts == nil {
		r.attempts = map[string]int{}
	}
	r.attempts[d.To]++

	if r.err != nil {
		return r.err
	}
	if r.failures[d.To] >= r.attempts[d.To] {
		return errors.New("provider rejected")
	}

	r.sent = append(r.sent, d)
	return nil
}

func (r *recordingSender) deliveries() []entity.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Delivery(nil), r.sent...)
}

func (r *recordingSender) tries(to string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[to]
}

// memDedupe is an in-memory stand-in for the redis state tracker.
type memDedupe struct {
	mu   sync.Mutex
	done map[string]bool
}

func (m *memDedupe) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	m.mu.Lock()
	if m.done == nil {
		m.done = map[string]bool{}
	}
	if m.done[key] {
		m.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.done[key] = true
	m.mu.Unlock()
	return nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type suite struct {
	uc    *usecase.Usecase
	mq    *mockMessaging
	mail  *recordingSender
	sms   *recordingSender
	dedup *memDedupe
}

func newSuite(t *testing.T) *suite {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
notification:
  admin:
    email: admin@estate.test
    phone: "+15550000000"
modules:
  notification:
    retry_attempts: 3
    retry_base_ms: 1
    delivery_timeout_seconds: 5
`))
	require.NoError(t, err)

	s := &suite{
		mq:    new(mockMessaging),
		mail:  &recordingSender{},
		sms:   &recordingSender{},
		dedup: &memDedupe{},
	}
	s.uc = usecase.New(usecase.Dependency{
		RepoMessaging: s.mq,
		RepoMail:      s.mail,
		RepoSMS:       s.sms,
		Idempotency:   s.dedup,
		Validator:     v,
		Config:        cfg,
		UUID:          fixedID("evt-1"),
		Instrument:    instrument.NewNoop(),
	})

	return s
}
