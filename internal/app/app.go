package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
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
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID

	// resources
	cacheConn        *redis.Client
	idemp            idempotency.Idempotency
	mail             mail.Mail
	sms              sms.SMS
	identityProvider usecase.IdentityProvider
	messaging        messaging.Messaging

	// names of the modules mounted by initModules
	modules []string

	// what the health endpoint reports
	mailConfigured             bool
	smsConfigured              bool
	identityProviderConfigured bool

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initMail()
	app.initSMS()
	app.initIdentityProvider()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
