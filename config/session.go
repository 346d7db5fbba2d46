package config

import "time"

// SessionConfig contains session lifetime configuration.
type SessionConfig struct {
	// DurableTTL bounds "remember me" credential records held in Redis.
	DurableTTL time.Duration `env:"SESSION_DURABLE_TTL" envDefault:"720h"` // 30 days

	// EphemeralTTL bounds credential records held in process memory.
	EphemeralTTL time.Duration `env:"SESSION_EPHEMERAL_TTL" envDefault:"12h"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.DurableTTL < time.Hour {
		s.DurableTTL = time.Hour
	}
	if s.EphemeralTTL < 10*time.Minute {
		s.EphemeralTTL = 10 * time.Minute
	}
	// The ephemeral scope must never outlive the durable one.
	if s.EphemeralTTL > s.DurableTTL {
		s.EphemeralTTL = s.DurableTTL
	}
}
