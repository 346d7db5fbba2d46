package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicdesk/ui-gateway/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting clinic gateway",
		"addr", cfg.HTTP.Addr,
		"upstream", cfg.Upstream.BaseURL,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	// Block until interrupted, then drain in-flight requests.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	return bootstrap.ShutdownHTTPServer(ctx, server, logger)
}
