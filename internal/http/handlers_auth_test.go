package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/service"
)

type fakeAuthService struct {
	loginFunc   func(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	logoutFunc  func(ctx context.Context, sid string) error
	sessionFunc func(ctx context.Context, sid string) (*session.Session, error)

	logoutCalls []string
}

func (f *fakeAuthService) Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error) {
	return f.loginFunc(ctx, in)
}

func (f *fakeAuthService) Logout(ctx context.Context, sid string) error {
	f.logoutCalls = append(f.logoutCalls, sid)
	if f.logoutFunc == nil {
		return nil
	}
	return f.logoutFunc(ctx, sid)
}

func (f *fakeAuthService) Session(ctx context.Context, sid string) (*session.Session, error) {
	if f.sessionFunc == nil {
		return nil, nil
	}
	return f.sessionFunc(ctx, sid)
}

func successfulLogin(role session.Role) func(context.Context, service.LoginInput) (*service.LoginResult, error) {
	return func(_ context.Context, in service.LoginInput) (*service.LoginResult, error) {
		persistence := session.PersistenceEphemeral
		if in.Remember {
			persistence = session.PersistenceDurable
		}
		return &service.LoginResult{
			SessionID: "sid-123",
			Session: session.Session{
				Token:       "jwt",
				Role:        role,
				DisplayName: "Rana",
				Profile:     session.Profile{ID: 7, FirstName: "Rana", Role: string(role)},
				Persistence: persistence,
			},
			RedirectTo: "/",
		}, nil
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAdminLogin_SetsSessionCookieAndRedirect(t *testing.T) {
	admin := &fakeAuthService{loginFunc: successfulLogin(session.RoleAdmin)}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
		strings.NewReader(`{"phone":"0795551234","password":"hunter2","remember":false}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "sid-123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	// Session-scoped cookie: no MaxAge when remember is off.
	assert.Equal(t, 0, cookie.MaxAge)

	var body loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, session.RoleAdmin, body.Role)
	assert.Equal(t, "/", body.RedirectTo)
}

func TestAdminLogin_RememberGetsPersistentCookie(t *testing.T) {
	admin := &fakeAuthService{loginFunc: successfulLogin(session.RoleAdmin)}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
		strings.NewReader(`{"phone":"0795551234","password":"hunter2","remember":true}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, int(rememberedSessionMaxAge.Seconds()), cookie.MaxAge)
}

func TestLogin_UpstreamRejectionPassesThroughVerbatim(t *testing.T) {
	admin := &fakeAuthService{
		loginFunc: func(context.Context, service.LoginInput) (*service.LoginResult, error) {
			return nil, apperrors.Domain("The phone field is invalid.", []string{"The phone field is invalid."})
		},
	}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
		strings.NewReader(`{"phone":"x","password":"y"}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The phone field is invalid.", body.Message)
	assert.Equal(t, []string{"The phone field is invalid."}, body.Details)
	assert.Nil(t, sessionCookie(rec))
}

func TestDoctorLogin_UsesDoctorVariant(t *testing.T) {
	doctor := &fakeAuthService{loginFunc: successfulLogin(session.RoleDoctor)}
	adminCalled := false
	admin := &fakeAuthService{
		loginFunc: func(context.Context, service.LoginInput) (*service.LoginResult, error) {
			adminCalled = true
			return nil, apperrors.Internal("wrong variant")
		},
	}
	h := &AuthHandlers{Admin: admin, Doctor: doctor}

	req := httptest.NewRequest(http.MethodPost, "/auth/doctor/login",
		strings.NewReader(`{"phone":"0795551234","password":"hunter2"}`))
	rec := httptest.NewRecorder()
	h.DoctorLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, adminCalled)

	var body loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, session.RoleDoctor, body.Role)
}

func TestLogout_ClearsCookieAndDispatchesOnRole(t *testing.T) {
	doctor := &fakeAuthService{}
	admin := &fakeAuthService{
		sessionFunc: func(_ context.Context, sid string) (*session.Session, error) {
			return &session.Session{Token: "jwt", Role: session.RoleDoctor}, nil
		},
	}
	forgotten := ""
	h := &AuthHandlers{Admin: admin, Doctor: doctor, OnLogout: func(sid string) { forgotten = sid }}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid-123"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sid-123"}, doctor.logoutCalls)
	assert.Empty(t, admin.logoutCalls)
	assert.Equal(t, "sid-123", forgotten)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestLogout_SucceedsWhenUpstreamFails(t *testing.T) {
	admin := &fakeAuthService{
		logoutFunc: func(context.Context, string) error {
			return apperrors.Network("upstream unreachable")
		},
	}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid-123"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	admin := &fakeAuthService{}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, admin.logoutCalls)
}

func TestStatus_ReportsAuthenticatedSession(t *testing.T) {
	admin := &fakeAuthService{
		sessionFunc: func(_ context.Context, sid string) (*session.Session, error) {
			return &session.Session{
				Token:       "jwt",
				Role:        session.RoleAdmin,
				DisplayName: "Rana",
				Profile:     session.Profile{ID: 7, FirstName: "Rana"},
			}, nil
		},
	}
	h := &AuthHandlers{Admin: admin, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sid-123"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "Rana", body["display_name"])
}

func TestStatus_ExpiredSessionClearsCookie(t *testing.T) {
	h := &AuthHandlers{Admin: &fakeAuthService{}, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestStatus_NoCookie(t *testing.T) {
	h := &AuthHandlers{Admin: &fakeAuthService{}, Doctor: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])
}
