package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/clinicdesk/ui-gateway/config"
	httpx "github.com/clinicdesk/ui-gateway/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Services == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		AdminAuth:    cfg.Services.AdminAuth,
		DoctorAuth:   cfg.Services.DoctorAuth,
		Sessions:     cfg.Services.AdminAuth,
		Admin:        cfg.Services.Upstream.Admin(),
		Doctor:       cfg.Services.Upstream.Doctor(),
		Dashboard:    cfg.Services.Dashboard,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	})

	return startServer(logger, handler, appCfg.HTTP)
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
