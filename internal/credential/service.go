package credential

// Package credential implements the credential store: one injectable service
// owning every read and write of the serialized session record across the
// durable and ephemeral scopes. No other code touches the scope stores
// directly, which keeps the "all fields change together" invariant
// enforceable in one place.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	"github.com/clinicdesk/ui-gateway/internal/ports"
)

// Options groups dependencies for Service.
type Options struct {
	Durable   ports.ScopeStore
	Ephemeral ports.ScopeStore

	// DurableTTL bounds "remember me" records. Zero selects the default.
	DurableTTL time.Duration
	// EphemeralTTL bounds records in the process-local scope. Zero selects the default.
	EphemeralTTL time.Duration
}

const (
	defaultDurableTTL   = 30 * 24 * time.Hour
	defaultEphemeralTTL = 12 * time.Hour
)

// Service coordinates the two credential scopes.
type Service struct {
	durable      ports.ScopeStore
	ephemeral    ports.ScopeStore
	durableTTL   time.Duration
	ephemeralTTL time.Duration
	now          func() time.Time
}

// NewService constructs a credential service.
func NewService(opts Options) *Service {
	durableTTL := opts.DurableTTL
	if durableTTL <= 0 {
		durableTTL = defaultDurableTTL
	}
	ephemeralTTL := opts.EphemeralTTL
	if ephemeralTTL <= 0 {
		ephemeralTTL = defaultEphemeralTTL
	}
	return &Service{
		durable:      opts.Durable,
		ephemeral:    opts.Ephemeral,
		durableTTL:   durableTTL,
		ephemeralTTL: ephemeralTTL,
		now:          time.Now,
	}
}

// StoreInput carries the fields written at login.
type StoreInput struct {
	Token       string
	Profile     session.Profile
	Durable     bool
	Role        string
	DisplayName string
}

// Store writes the full credential record into the scope selected by
// in.Durable. The other scope is deliberately left untouched; stale data
// there is tolerated because reads prefer the durable scope only when its
// token is present.
func (s *Service) Store(ctx context.Context, sid string, in StoreInput) error {
	if sid == "" {
		return errors.New("session ID is required")
	}
	if in.Token == "" {
		return errors.New("token is required")
	}

	rec := session.Record{
		Token:       in.Token,
		Role:        in.Role,
		DisplayName: in.DisplayName,
		Profile:     in.Profile,
	}
	fields, err := rec.Fields()
	if err != nil {
		return fmt.Errorf("serialize credential record: %w", err)
	}

	if in.Durable {
		if err := s.durable.Write(ctx, sid, fields, s.durableTTL); err != nil {
			return fmt.Errorf("write durable credentials: %w", err)
		}
		return nil
	}
	if err := s.ephemeral.Write(ctx, sid, fields, s.ephemeralTTL); err != nil {
		return fmt.Errorf("write ephemeral credentials: %w", err)
	}
	return nil
}

// Read returns the active session, or nil when neither scope holds a token.
// The durable scope wins when its token is present; the authToken duplicate
// is checked first for compatibility with records written by older builds.
func (s *Service) Read(ctx context.Context, sid string) (*session.Session, error) {
	if sid == "" {
		return nil, nil
	}

	fields, err := s.durable.Read(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("read durable credentials: %w", err)
	}
	if hasToken(fields) {
		return buildSession(fields, session.PersistenceDurable), nil
	}

	fields, err = s.ephemeral.Read(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("read ephemeral credentials: %w", err)
	}
	if hasToken(fields) {
		return buildSession(fields, session.PersistenceEphemeral), nil
	}
	return nil, nil
}

// Clear removes the credential record from BOTH scopes unconditionally.
// It is idempotent and safe to call when no session exists. Both deletes are
// always attempted; errors are joined rather than short-circuiting so one
// failing scope cannot leave the other populated by accident.
func (s *Service) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return errors.Join(
		s.durable.Delete(ctx, sid),
		s.ephemeral.Delete(ctx, sid),
	)
}

// IsValid reports whether the active session's token should still be trusted.
// Tokens with a decodable exp claim in the past are invalid. Opaque or
// malformed tokens count as valid while present: fail-open by policy, so an
// unexpected token format never locks the user out. See TokenExpired.
func (s *Service) IsValid(ctx context.Context, sid string) bool {
	sess, err := s.Read(ctx, sid)
	if err != nil || sess == nil {
		return false
	}
	return !TokenExpired(sess.Token, s.now())
}

func hasToken(fields map[string]string) bool {
	return fields[session.FieldAuthToken] != "" || fields[session.FieldToken] != ""
}

func buildSession(fields map[string]string, p session.Persistence) *session.Session {
	rec := session.RecordFromFields(fields)
	role, _ := session.ResolveRole(rec.Role)
	return &session.Session{
		Token:       rec.Token,
		Role:        role,
		DisplayName: rec.DisplayName,
		Profile:     rec.Profile,
		Persistence: p,
	}
}
