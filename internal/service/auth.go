package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clinicdesk/ui-gateway/internal/credential"
	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/ports"
)

// CredentialStore is the credential service surface the auth flows use.
type CredentialStore interface {
	Store(ctx context.Context, sid string, in credential.StoreInput) error
	Read(ctx context.Context, sid string) (*session.Session, error)
	Clear(ctx context.Context, sid string) error
	IsValid(ctx context.Context, sid string) bool
}

// ErrInvalidLoginResponse is returned when the upstream login response is
// missing the token or the user profile. Nothing is stored in that case.
var ErrInvalidLoginResponse = apperrors.Upstream("invalid login response")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API         ports.LoginAPI
	Credentials CredentialStore
	Role        session.Role
	Logger      *slog.Logger
}

// AuthService runs the session lifecycle for one role variant:
// Anonymous -> Authenticating -> Authenticated -> Anonymous. The admin and
// doctor instances differ only in the bound upstream endpoints and the role
// they stamp on the stored record.
type AuthService struct {
	api    ports.LoginAPI
	creds  CredentialStore
	role   session.Role
	logger *slog.Logger
}

// NewAuthService constructs an auth service variant.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:    opts.API,
		creds:  opts.Credentials,
		role:   opts.Role,
		logger: logger,
	}
}

// LoginInput carries the submitted credentials and the "remember me" flag
// that selects the durable storage scope.
type LoginInput struct {
	Identifier string
	Secret     string
	Remember   bool
}

// LoginResult is returned on successful authentication. RedirectTo instructs
// the SPA to perform a full hard navigation (not a client-side transition) so
// all in-memory state is rebuilt against the new session.
type LoginResult struct {
	SessionID  string
	Session    session.Session
	RedirectTo string
}

// Login authenticates against the upstream and, on success, writes the full
// credential record and mints a gateway session. A response missing either
// the token or the user fails with ErrInvalidLoginResponse and performs no
// storage writes. Upstream rejections propagate with their server-provided
// payload intact.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Identifier == "" || in.Secret == "" {
		return nil, apperrors.Validation("phone and password are required")
	}

	token, profile, err := s.api.Login(ctx, in.Identifier, in.Secret)
	if err != nil {
		return nil, err
	}
	if token == "" || profile == nil {
		return nil, ErrInvalidLoginResponse
	}

	// The stored role comes from the profile, like the rest of the record;
	// the variant role only fills in when the upstream omits it.
	role := profile.Role
	if role == "" {
		role = string(s.role)
	}

	sid := uuid.NewString()
	err = s.creds.Store(ctx, sid, credential.StoreInput{
		Token:       token,
		Profile:     *profile,
		Durable:     in.Remember,
		Role:        role,
		DisplayName: profile.FirstName,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "store credentials")
	}

	resolved, _ := session.ResolveRole(role)
	s.logger.InfoContext(ctx, "login succeeded", "role", role, "remember", in.Remember)

	persistence := session.PersistenceEphemeral
	if in.Remember {
		persistence = session.PersistenceDurable
	}
	return &LoginResult{
		SessionID: sid,
		Session: session.Session{
			Token:       token,
			Role:        resolved,
			DisplayName: profile.FirstName,
			Profile:     *profile,
			Persistence: persistence,
		},
		RedirectTo: "/",
	}, nil
}

// Logout notifies the upstream and then clears both credential scopes
// unconditionally. A failed or unreachable upstream never blocks local
// teardown; that failure is logged and swallowed.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}

	if err := s.api.Logout(ctx, sid); err != nil {
		s.logger.WarnContext(ctx, "upstream logout failed, clearing locally anyway", "error", err)
	}
	return s.creds.Clear(ctx, sid)
}

// Session returns the active, still-valid session for sid, or nil.
func (s *AuthService) Session(ctx context.Context, sid string) (*session.Session, error) {
	if sid == "" {
		return nil, nil
	}
	sess, err := s.creds.Read(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil || !s.creds.IsValid(ctx, sid) {
		return nil, nil
	}
	return sess, nil
}
