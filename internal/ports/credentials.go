package ports

// Package ports defines interfaces (hexagonal ports) for credential storage
// and upstream authentication. Implementations live in internal/adapters and
// internal/upstream; orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
)

// ScopeStore persists the five-field credential record for one storage scope
// (durable or ephemeral), keyed by gateway session ID.
type ScopeStore interface {
	// Write stores all record fields as one logical transaction.
	Write(ctx context.Context, sid string, fields map[string]string, ttl time.Duration) error

	// Read returns the stored fields, or an empty map when nothing is stored.
	// Absence is not an error.
	Read(ctx context.Context, sid string) (map[string]string, error)

	// Delete removes the record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, sid string) error
}

// LoginAPI is the upstream authentication surface used by an auth service
// variant. The admin and doctor variants bind different upstream endpoints
// behind the same shape.
type LoginAPI interface {
	// Login posts credentials and returns the upstream token and profile.
	Login(ctx context.Context, identifier, secret string) (token string, profile *session.Profile, err error)

	// Logout notifies the upstream that the bearer token is being abandoned.
	Logout(ctx context.Context, sid string) error
}
