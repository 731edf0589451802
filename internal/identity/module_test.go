package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity"
	"github.com/shandysiswandi/estatenotify/internal/identity/outbound/firebase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goroutine"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  identity:
    sweep_interval_seconds: 1
`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	gm := goroutine.NewManager(4)
	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})

	err = identity.New(identity.Dependency{
		Ctx:              ctx,
		Goroutine:        gm,
		Router:           r,
		Mail:             mail.Disabled{},
		IdentityProvider: firebase.Disabled{},
		Config:           cfg,
		Instrument:       instrument.NewNoop(),
		Clock:            clock.New(),
		Validator:        v,
	})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return gm.Running() == 1 }, time.Second, 10*time.Millisecond)

	// the mail sender is disabled, so delivery fails after the code is stored
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/send-otp", strings.NewReader(`{"identifier":"alice@example.com"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to send OTP email. Please try again.")

	cancel()
	assert.NoError(t, gm.Wait())
}

func TestNew_MissingDependency(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	assert.Error(t, identity.New(identity.Dependency{Validator: v}))
}
