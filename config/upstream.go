package config

import "time"

// UpstreamConfig contains the upstream clinic API configuration.
type UpstreamConfig struct {
	// BaseURL is the absolute base URL of the clinic REST API
	// (e.g. "https://clinic-api.example.com").
	BaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	if u.Timeout < time.Second {
		u.Timeout = 30 * time.Second
	}
	if u.Timeout > 2*time.Minute {
		u.Timeout = 2 * time.Minute
	}
}
