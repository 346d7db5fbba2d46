package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
)

type fakeSessions struct {
	sessions map[string]*session.Session
}

func (f *fakeSessions) Session(_ context.Context, sid string) (*session.Session, error) {
	return f.sessions[sid], nil
}

func guardedRequest(t *testing.T, sessions SessionSource, required session.Role, cookie string) *httptest.ResponseRecorder {
	t.Helper()

	var sawSession *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSession, _ = SessionFromContext(r.Context())
		WriteJSON(w, http.StatusOK, map[string]string{"sid": SessionIDFromContext(r.Context())})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/clinics", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	RequireRole(sessions, required)(next).ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		require.NotNil(t, sawSession)
	}
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireRole_NoCookie(t *testing.T) {
	rec := guardedRequest(t, &fakeSessions{}, session.RoleAdmin, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "session_expired", body.Error)
	assert.Equal(t, "/login", body.RedirectTo)
}

func TestRequireRole_UnknownSession(t *testing.T) {
	rec := guardedRequest(t, &fakeSessions{}, session.RoleAdmin, "nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", decodeError(t, rec).RedirectTo)
}

func TestRequireRole_UnrecognizedRoleIsDenied(t *testing.T) {
	// Stored roles outside the two known literals must never be admitted to
	// either tree, including privileged-looking values.
	for _, role := range []string{"", "superuser", "Admin", "administrator"} {
		sessions := &fakeSessions{sessions: map[string]*session.Session{
			"sid-1": {Token: "jwt", Role: session.Role(role)},
		}}
		rec := guardedRequest(t, sessions, session.RoleAdmin, "sid-1")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "role %q", role)
	}
}

func TestRequireRole_WrongRoleIsForbiddenNotExpired(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*session.Session{
		"sid-1": {Token: "jwt", Role: session.RoleDoctor},
	}}

	rec := guardedRequest(t, sessions, session.RoleAdmin, "sid-1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "forbidden", body.Error)
	assert.Empty(t, body.RedirectTo)
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*session.Session{
		"sid-1": {Token: "jwt", Role: session.RoleAdmin, DisplayName: "Rana"},
	}}

	rec := guardedRequest(t, sessions, session.RoleAdmin, "sid-1")

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "sid-1", payload["sid"])
}
