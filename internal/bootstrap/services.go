package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/ui-gateway/config"
	"github.com/clinicdesk/ui-gateway/internal/adapters/memstore"
	"github.com/clinicdesk/ui-gateway/internal/adapters/redisstore"
	"github.com/clinicdesk/ui-gateway/internal/credential"
	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	"github.com/clinicdesk/ui-gateway/internal/service"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Credentials *credential.Service
	Upstream    *upstream.Client
	AdminAuth   *service.AuthService
	DoctorAuth  *service.AuthService
	Dashboard   *service.DashboardService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the credential store, the upstream client, and the
// role-variant auth services. Redis backs the durable credential scope; the
// ephemeral scope is process-local and dies with the gateway.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	creds := credential.NewService(credential.Options{
		Durable:      redisstore.New(deps.RedisClient),
		Ephemeral:    memstore.New(),
		DurableTTL:   cfg.Session.DurableTTL,
		EphemeralTTL: cfg.Session.EphemeralTTL,
	})

	client, err := upstream.New(upstream.Options{
		BaseURL:     cfg.Upstream.BaseURL,
		Credentials: creds,
		Logger:      logger,
		Timeout:     cfg.Upstream.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build upstream client: %w", err)
	}

	adminAuth := service.NewAuthService(service.AuthServiceOptions{
		API:         client.AdminAuth(),
		Credentials: creds,
		Role:        session.RoleAdmin,
		Logger:      logger,
	})
	doctorAuth := service.NewAuthService(service.AuthServiceOptions{
		API:         client.DoctorAuth(),
		Credentials: creds,
		Role:        session.RoleDoctor,
		Logger:      logger,
	})

	return &ServiceContainer{
		Credentials: creds,
		Upstream:    client,
		AdminAuth:   adminAuth,
		DoctorAuth:  doctorAuth,
		Dashboard:   service.NewDashboardService(client.Admin(), logger),
	}, nil
}
