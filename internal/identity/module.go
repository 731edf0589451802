package identity

import (
	"context"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/inbound"
	"github.com/shandysiswandi/estatenotify/internal/identity/outbound/email"
	"github.com/shandysiswandi/estatenotify/internal/identity/outbound/memstore"
	"github.com/shandysiswandi/estatenotify/internal/identity/usecase"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/shandysiswandi/estatenotify/internal/pkg/goroutine"
	"github.com/shandysiswandi/estatenotify/internal/pkg/instrument"
	"github.com/shandysiswandi/estatenotify/internal/pkg/mail"
	"github.com/shandysiswandi/estatenotify/internal/pkg/router"
	"github.com/shandysiswandi/estatenotify/internal/pkg/validator"
)

const (
	keySweepInterval     = "modules.identity.sweep_interval_seconds"
	defaultSweepInterval = time.Minute
)

type Dependency struct {
	Ctx              context.Context            `validate:"required"`
	Goroutine        *goroutine.Manager         `validate:"required"`
	Router           *router.Router             `validate:"required"`
	Mail             mail.Mail                  `validate:"required"`
	IdentityProvider usecase.IdentityProvider   `validate:"required"`
	Config           config.Config              `validate:"required"`
	Instrument       instrument.Instrumentation `validate:"required"`
	Clock            clock.Clocker              `validate:"required"`
	Validator        validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := memstore.New()

	uc := usecase.New(usecase.Dependency{
		Store:            store,
		Mailer:           email.New(dep.Mail, dep.Instrument),
		IdentityProvider: dep.IdentityProvider,
		Validator:        dep.Validator,
		Config:           dep.Config,
		Clock:            dep.Clock,
		Instrument:       dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	interval := defaultSweepInterval
	if dep.Config.Has(keySweepInterval) {
		interval = dep.Config.GetSecond(keySweepInterval)
	}
	if interval > 0 {
		dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
			return store.RunSweeper(ctx, interval, dep.Clock)
		})
	}

	return nil
}
