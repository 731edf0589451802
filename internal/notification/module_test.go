package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/notification"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goroutine"
	"github.com/shandysiswandi/estatenotify/internal/pkg/idempotency"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"github.com/shandysiswandi/estatenotify/internal/pkg/messaging"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
	"github.com/shandysiswandi/estatenotify/internal/pkg/sms"
	"github.com/shandysiswandi/estatenotify/internal/pkg/uid"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (i *inbox) Send(_ context.Context, msg mail.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, msg)
	return nil
}

func (i *inbox) Close() error { return nil }

func (i *inbox) recipients() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	var out []string
	for _, m := range i.msgs {
		out = append(out, m.To...)
	}
	return out
}

func TestNew_BookingFlowsThroughBroker(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
notification:
  admin:
    email: admin@estate.test
    phone: "+15550000000"
`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	gm := goroutine.NewManager(4)
	local := messaging.NewLocal(messaging.LocalConfig{})
	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})
	box := &inbox{}

	err = notification.New(notification.Dependency{
		Ctx:         ctx,
		Goroutine:   gm,
		Router:      r,
		Messaging:   local,
		Mail:        box,
		SMS:         sms.Disabled{},
		Idempotency: idempotency.Disabled{},
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
		UUID:        uid.NewUUID(),
		Validator:   v,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notify-booking", strings.NewReader(`{
		"bookingId":"bk-1","propertyTitle":"Villa","propertyLocation":"Bali","customerName":"Alice",
		"customerEmail":"alice@example.com","checkIn":"2026-07-01","checkOut":"2026-07-03","guests":2,"totalPrice":300}`)))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "eventId")

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"admin@estate.test", "alice@example.com"}, box.recipients())
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, local.Close())
	assert.NoError(t, gm.Wait())
}

func TestNew_MissingDependency(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	assert.Error(t, notification.New(notification.Dependency{Validator: v}))
}
