package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reset(s *suite, email, code, pw string) error {
	return s.uc.PasswordReset(context.Background(), usecase.PasswordResetInput{Email: email, OTP: code, NewPassword: pw})
}

func TestPasswordReset_Success(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice", Email: "alice@example.com"}, nil).Once()
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").Return(nil).Once()

	require.NoError(t, reset(s, "Alice@Example.com", c, "n3w-secret"))
	s.idp.AssertExpectations(t)

	_, ok := s.store.Get("alice@example.com")
	assert.False(t, ok)
	assert.ErrorIs(t, reset(s, "alice@example.com", c, "n3w-secret"), entity.ErrOTPNotFound)
}

func TestPasswordReset_OTPStageErrors(t *testing.T) {
	s := newSuite(t)

	err := reset(s, "alice@example.com", "1234", "n3w-secret")
	assert.ErrorIs(t, err, entity.ErrOTPNotFound)

	c := s.issue(t, "alice@example.com")
	err = reset(s, "alice@example.com", wrongCode(c), "n3w-secret")
	assert.ErrorIs(t, err, entity.ErrOTPMismatch)
	ge, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())

	// mismatch keeps the record
	_, ok = s.store.Get("alice@example.com")
	assert.True(t, ok)

	s.clock.Advance(5 * time.Minute)
	assert.ErrorIs(t, reset(s, "alice@example.com", c, "n3w-secret"), entity.ErrOTPExpired)
	_, ok = s.store.Get("alice@example.com")
	assert.False(t, ok)

	s.idp.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestPasswordReset_ProviderErrorsKeepRecord(t *testing.T) {
	tests := []struct {
		name      string
		getErr    error
		updateErr error
		wantIs    error
		wantMsg   string
	}{
		{
			name:    "provider unavailable",
			getErr:  entity.ErrIdentityProviderUnavailable,
			wantIs:  entity.ErrIdentityProviderUnavailable,
			wantMsg: "Password reset is not available right now.",
		},
		{
			name:    "user not found",
			getErr:  entity.ErrUserNotFound,
			wantIs:  entity.ErrUserNotFound,
			wantMsg: "No account found with this email address.",
		},
		{
			name:    "lookup failure",
			getErr:  errors.New("rpc error"),
			wantIs:  entity.ErrUpdateFailed,
			wantMsg: "Failed to reset password. Please try again.",
		},
		{
			name:      "update failure",
			updateErr: context.DeadlineExceeded,
			wantIs:    entity.ErrUpdateFailed,
			wantMsg:   "Failed to reset password. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			c := s.issue(t, "alice@example.com")

			if tt.getErr != nil {
				s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(nil, tt.getErr).Once()
			} else {
				s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
					Return(&entity.IdentityUser{UID: "uid-alice"}, nil).Once()
				s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").Return(tt.updateErr).Once()
			}

			err := reset(s, "alice@example.com", c, "n3w-secret")
			assert.ErrorIs(t, err, tt.wantIs)

			ge, ok := goerror.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusInternalServerError, ge.StatusCode())
			assert.Equal(t, tt.wantMsg, ge.Msg())

			rec, ok := s.store.Get("alice@example.com")
			require.True(t, ok)
			assert.Equal(t, c, rec.Code)
			assert.False(t, s.store.Reserved("alice@example.com"))
			s.idp.AssertExpectations(t)
		})
	}
}

func TestPasswordReset_ConcurrentResetsSpendCodeOnce(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	entered := make(chan struct{})
	unblock := make(chan struct{})
	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice"}, nil)
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-unblock
		}).
		Return(nil)

	first := make(chan error, 1)
	go func() { first <- reset(s, "alice@example.com", c, "first-secret") }()
	<-entered

	err := reset(s, "alice@example.com", c, "second-secret")
	assert.ErrorIs(t, err, entity.ErrOTPNotFound)
	ge, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())

	close(unblock)
	require.NoError(t, <-first)

	s.idp.AssertNumberOfCalls(t, "UpdatePassword", 1)
	s.idp.AssertCalled(t, "UpdatePassword", mock.Anything, "uid-alice", "first-secret")
	_, ok = s.store.Get("alice@example.com")
	assert.False(t, ok)
}

func TestPasswordReset_ParallelResetsOneWins(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice"}, nil)
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return(nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, pw := range []string{"first-secret", "second-secret"} {
		wg.Go(func() {
			if reset(s, "alice@example.com", c, pw) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	s.idp.AssertNumberOfCalls(t, "UpdatePassword", 1)
}

func TestPasswordReset_ConsumingVerifyDuringResetFails(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice"}, nil).Once()
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").
		Run(func(mock.Arguments) {
			assert.ErrorIs(t, verify(s, "alice@example.com", c, true), entity.ErrOTPNotFound)
			assert.NoError(t, verify(s, "alice@example.com", c, false))
		}).
		Return(nil).Once()

	require.NoError(t, reset(s, "alice@example.com", c, "n3w-secret"))

	_, ok := s.store.Get("alice@example.com")
	assert.False(t, ok)
}

func TestPasswordReset_RetryAfterProviderFailure(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice"}, nil).Twice()
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").
		Return(entity.ErrIdentityProviderUnavailable).Once()
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").
		Return(nil).Once()

	assert.ErrorIs(t, reset(s, "alice@example.com", c, "n3w-secret"), entity.ErrIdentityProviderUnavailable)
	require.NoError(t, reset(s, "alice@example.com", c, "n3w-secret"))
	s.idp.AssertExpectations(t)
}

func TestPasswordReset_ReissueDuringUpdateIsKept(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	var reissued string
	s.idp.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&entity.IdentityUser{UID: "uid-alice"}, nil).Once()
	s.idp.On("UpdatePassword", mock.Anything, "uid-alice", "n3w-secret").
		Run(func(mock.Arguments) {
			s.clock.Advance(time.Second)
			reissued = s.issue(t, "alice@example.com")
		}).
		Return(nil).Once()

	require.NoError(t, reset(s, "alice@example.com", c, "n3w-secret"))

	rec, ok := s.store.Get("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, reissued, rec.Code)
	assert.Equal(t, t0.Add(time.Second), rec.IssuedAt)
}

func TestPasswordReset_InvalidInput(t *testing.T) {
	s := newSuite(t)
	c := s.issue(t, "alice@example.com")

	err := reset(s, "alice@example.com", c, "short")
	ge, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, goerror.TypeValidation, ge.Type())
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode())

	_, ok = s.store.Get("alice@example.com")
	assert.True(t, ok)
}
