package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Start launches the HTTP server and returns a channel closed once a
// termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening",
			"address", a.httpServer.Addr,
			"modules", a.modules,
			"email", a.mailConfigured,
			"sms", a.smsConfigured,
			"identity_provider", a.identityProviderConfigured,
		)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sig)

		s := <-sig
		slog.Info("termination signal received", "signal", s.String())

		close(terminateChan)
	}()

	return terminateChan
}

// Serve runs the HTTP server on l. The returned channel yields the result of
// http.Server.Serve once the server stops.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- a.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// ShutdownTimeout bounds Stop. It is read from
// app.server.http.shutdown_timeout_seconds and defaults to 10 seconds.
func (a *App) ShutdownTimeout() time.Duration {
	if a.config != nil {
		if d := a.config.GetSecond("app.server.http.shutdown_timeout_seconds"); d > 0 {
			return d
		}
	}
	return defaultShutdownTimeout
}

// Stop shuts the service down in order: HTTP intake first so no new code is
// issued and no reset starts, then the background work of the modules (the
// notification consumer and the code sweeper) through the shared context,
// then the outbound resources. A phase that overruns ctx is abandoned and the
// remaining phases still run.
func (a *App) Stop(ctx context.Context) {
	slog.InfoContext(ctx, "shutting down", "modules", a.modules)

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to drain http server", "error", err)
	}

	if a.cancel != nil {
		a.cancel()
	}

	a.waitBackground(ctx)

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "shutdown complete")
}

func (a *App) waitBackground(ctx context.Context) {
	if a.goroutine == nil {
		return
	}

	slog.InfoContext(ctx, "waiting for background work", "running", a.goroutine.Running())

	done := make(chan error, 1)
	go func() { done <- a.goroutine.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			slog.ErrorContext(ctx, "background work ended with errors", "error", err)
			return
		}
		slog.InfoContext(ctx, "background work finished")
	case <-ctx.Done():
		slog.ErrorContext(ctx, "background work still running at shutdown deadline",
			"running", a.goroutine.Running(),
			"error", ctx.Err(),
		)
	}
}
