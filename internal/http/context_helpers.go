package httpx

import (
	"context"
	"net/http"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
)

// SessionCookieName is the browser-facing cookie carrying the opaque gateway
// session ID. The upstream bearer token never reaches the browser.
const SessionCookieName = "session_id"

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

type sessionIDKey struct{}

// SetSessionInContext returns a child context carrying the session and its ID.
// If s is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, sid string, s *session.Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// SessionFromContext returns the session from context and whether one is present.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	if s, ok := ctx.Value(sessionKey{}).(*session.Session); ok && s != nil {
		return s, true
	}
	return nil, false
}

// SessionIDFromContext returns the gateway session ID placed by the guard middleware.
func SessionIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return sid
	}
	return ""
}

// sessionIDFromRequest extracts the session cookie value, or "" when absent.
func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
