package app

import (
	"log/slog"
	"os"
	"slices"

	"github.com/shandysiswandi/estatenotify/internal/identity"
	"github.com/shandysiswandi/estatenotify/internal/notification"
	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
)

func (a *App) initModules() {
	a.router.GET("/api/health", a.health)

	if slices.Contains(a.modules, "identity") {
		if err := identity.New(identity.Dependency{
			Ctx:              a.ctx,
			Goroutine:        a.goroutine,
			Router:           a.router,
			Mail:             a.mail,
			IdentityProvider: a.identityProvider,
			Config:           a.config,
			Instrument:       a.ins,
			Clock:            a.clock,
			Validator:        a.validator,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if slices.Contains(a.modules, "notification") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Messaging:   a.messaging,
			Mail:        a.mail,
			SMS:         a.sms,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}

// enabledModules returns the modules switched on under modules.<name>.enabled.
func enabledModules(cfg config.Config) []string {
	var names []string
	for _, name := range []string{"identity", "notification"} {
		if cfg.GetBool("modules." + name + ".enabled") {
			names = append(names, name)
		}
	}
	return names
}
