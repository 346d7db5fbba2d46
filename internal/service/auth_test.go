package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/ui-gateway/internal/credential"
	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

type fakeLoginAPI struct {
	loginFunc  func(ctx context.Context, identifier, secret string) (string, *session.Profile, error)
	logoutFunc func(ctx context.Context, sid string) error
}

func (f *fakeLoginAPI) Login(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
	return f.loginFunc(ctx, identifier, secret)
}

func (f *fakeLoginAPI) Logout(ctx context.Context, sid string) error {
	if f.logoutFunc == nil {
		return nil
	}
	return f.logoutFunc(ctx, sid)
}

type fakeCredentialStore struct {
	storeFunc   func(ctx context.Context, sid string, in credential.StoreInput) error
	readFunc    func(ctx context.Context, sid string) (*session.Session, error)
	clearFunc   func(ctx context.Context, sid string) error
	isValidFunc func(ctx context.Context, sid string) bool

	storeCalls []credential.StoreInput
	clearCalls []string
}

func (f *fakeCredentialStore) Store(ctx context.Context, sid string, in credential.StoreInput) error {
	f.storeCalls = append(f.storeCalls, in)
	if f.storeFunc == nil {
		return nil
	}
	return f.storeFunc(ctx, sid, in)
}

func (f *fakeCredentialStore) Read(ctx context.Context, sid string) (*session.Session, error) {
	if f.readFunc == nil {
		return nil, nil
	}
	return f.readFunc(ctx, sid)
}

func (f *fakeCredentialStore) Clear(ctx context.Context, sid string) error {
	f.clearCalls = append(f.clearCalls, sid)
	if f.clearFunc == nil {
		return nil
	}
	return f.clearFunc(ctx, sid)
}

func (f *fakeCredentialStore) IsValid(ctx context.Context, sid string) bool {
	if f.isValidFunc == nil {
		return true
	}
	return f.isValidFunc(ctx, sid)
}

func testProfile() *session.Profile {
	return &session.Profile{ID: 7, FirstName: "Rana", LastName: "Haddad", Role: "admin"}
}

func newTestAuthService(api *fakeLoginAPI, creds *fakeCredentialStore, role session.Role) *AuthService {
	return NewAuthService(AuthServiceOptions{
		API:         api,
		Credentials: creds,
		Role:        role,
		Logger:      slog.New(slog.DiscardHandler),
	})
}

func TestAuthService_LoginStoresFullRecord(t *testing.T) {
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			assert.Equal(t, "0795551234", identifier)
			assert.Equal(t, "hunter2", secret)
			return "jwt-token", testProfile(), nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	res, err := svc.Login(context.Background(), LoginInput{
		Identifier: "0795551234",
		Secret:     "hunter2",
		Remember:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.Equal(t, "/", res.RedirectTo)
	assert.Equal(t, session.RoleAdmin, res.Session.Role)
	assert.Equal(t, "Rana", res.Session.DisplayName)
	assert.Equal(t, session.PersistenceDurable, res.Session.Persistence)

	require.Len(t, creds.storeCalls, 1)
	stored := creds.storeCalls[0]
	assert.Equal(t, "jwt-token", stored.Token)
	assert.True(t, stored.Durable)
	assert.Equal(t, "admin", stored.Role)
}

func TestAuthService_LoginWithoutRememberIsEphemeral(t *testing.T) {
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			return "jwt-token", testProfile(), nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	res, err := svc.Login(context.Background(), LoginInput{Identifier: "a", Secret: "b"})
	require.NoError(t, err)
	assert.Equal(t, session.PersistenceEphemeral, res.Session.Persistence)

	require.Len(t, creds.storeCalls, 1)
	assert.False(t, creds.storeCalls[0].Durable)
}

func TestAuthService_LoginMissingTokenStoresNothing(t *testing.T) {
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			return "", testProfile(), nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "a", Secret: "b"})
	require.ErrorIs(t, err, ErrInvalidLoginResponse)
	assert.Empty(t, creds.storeCalls)
}

func TestAuthService_LoginMissingProfileStoresNothing(t *testing.T) {
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			return "jwt-token", nil, nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleDoctor)

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "a", Secret: "b"})
	require.ErrorIs(t, err, ErrInvalidLoginResponse)
	assert.Empty(t, creds.storeCalls)
}

func TestAuthService_LoginRejectionPassesThrough(t *testing.T) {
	want := apperrors.Domain("Invalid phone or password", nil)
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			return "", nil, want
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "a", Secret: "b"})
	require.ErrorIs(t, err, want)
	assert.Empty(t, creds.storeCalls)
}

func TestAuthService_LoginRequiresCredentials(t *testing.T) {
	svc := newTestAuthService(&fakeLoginAPI{}, &fakeCredentialStore{}, session.RoleAdmin)

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "", Secret: "b"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_VariantRoleFillsInWhenProfileOmitsIt(t *testing.T) {
	api := &fakeLoginAPI{
		loginFunc: func(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
			p := testProfile()
			p.Role = ""
			return "jwt-token", p, nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleDoctor)

	res, err := svc.Login(context.Background(), LoginInput{Identifier: "a", Secret: "b"})
	require.NoError(t, err)
	assert.Equal(t, session.RoleDoctor, res.Session.Role)

	require.Len(t, creds.storeCalls, 1)
	assert.Equal(t, "doctor", creds.storeCalls[0].Role)
}

func TestAuthService_LogoutClearsEvenWhenUpstreamFails(t *testing.T) {
	api := &fakeLoginAPI{
		logoutFunc: func(ctx context.Context, sid string) error {
			return apperrors.Network("connection refused")
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	err := svc.Logout(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sid-1"}, creds.clearCalls)
}

func TestAuthService_LogoutWithoutSessionIsNoop(t *testing.T) {
	upstreamCalled := false
	api := &fakeLoginAPI{
		logoutFunc: func(ctx context.Context, sid string) error {
			upstreamCalled = true
			return nil
		},
	}
	creds := &fakeCredentialStore{}
	svc := newTestAuthService(api, creds, session.RoleAdmin)

	require.NoError(t, svc.Logout(context.Background(), ""))
	assert.False(t, upstreamCalled)
	assert.Empty(t, creds.clearCalls)
}

func TestAuthService_SessionReturnsNilWhenInvalid(t *testing.T) {
	creds := &fakeCredentialStore{
		readFunc: func(ctx context.Context, sid string) (*session.Session, error) {
			return &session.Session{Token: "jwt", Role: session.RoleAdmin}, nil
		},
		isValidFunc: func(ctx context.Context, sid string) bool { return false },
	}
	svc := newTestAuthService(&fakeLoginAPI{}, creds, session.RoleAdmin)

	sess, err := svc.Session(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestAuthService_SessionReturnsNilWhenAbsent(t *testing.T) {
	svc := newTestAuthService(&fakeLoginAPI{}, &fakeCredentialStore{}, session.RoleAdmin)

	sess, err := svc.Session(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, sess)

	sess, err = svc.Session(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, sess)
}
