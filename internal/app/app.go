package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"BlogPortal/internal/config"
	"BlogPortal/internal/infrastructure/storeapi"
	"BlogPortal/internal/logging"
	"BlogPortal/internal/web"
)

// Application wires config to adapters and the HTTP surface.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store := storeapi.NewClient(cfg.Store.BaseURL)

	webServer, err := web.NewServer(web.Deps{
		Store:            store,
		OverridePassword: cfg.Auth.MasterPassword,
		SessionSecret:    cfg.Session.Secret,
		Logger:           baseLogger.With("component", "web"),
	})
	if err != nil {
		return nil, fmt.Errorf("build web server: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Application{cfg: cfg, logger: baseLogger, server: server}, nil
}

// Run serves the portal until the context is canceled, then shuts down with
// a grace period.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("portal listening", "addr", a.cfg.Server.Addr, "store", a.cfg.Store.BaseURL)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
