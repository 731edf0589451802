package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/identity/outbound/memstore"
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

// capturingMailer records the last code sent per address.
type capturingMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
	calls int
}

func (m *capturingMailer) SendOTP(_ context.Context, to, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return m.err
}

func (m *capturingMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type mockIdP struct {
	mock.Mock
}

func (m *mockIdP) GetUserByEmail(ctx context.Context, email string) (*entity.IdentityUser, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.IdentityUser)
	return u, args.Error(1)
}

func (m *mockIdP) UpdatePassword(ctx context.Context, uid, password string) error {
	return m.Called(ctx, uid, password).Error(0)
}

type suite struct {
	uc     *usecase.Usecase
	store  *memstore.Store
	mailer *capturingMailer
	idp    *mockIdP
	clock  *clock.ManualClocker
}

func newSuite(t *testing.T) *suite {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  identity:
    otp_ttl_seconds: 300
    delivery_timeout_seconds: 10
`))
	require.NoError(t, err)

	s := &suite{
		store:  memstore.New(),
		mailer: &capturingMailer{},
		idp:    new(mockIdP),
		clock:  clock.NewManual(t0),
	}
	s.uc = usecase.New(usecase.Dependency{
		Store:            s.store,
		Mailer:           s.mailer,
		IdentityProvider: s.idp,
		Validator:        v,
		Config:           cfg,
		Clock:            s.clock,
		Instrument:       instrument.NewNoop(),
	})

	return s
}

// issue sends an OTP to id and returns the delivered code.
func (s *suite) issue(t *testing.T, id string) string {
	t.Helper()

	_, err := s.uc.SendOTP(context.Background(), usecase.SendOTPInput{Type: "email", Identifier: id})
	require.NoError(t, err)

	code := s.mailer.code(id)
	require.Len(t, code, 4)
	return code
}
