package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/service"
)

// AuthService defines the auth operations the HTTP layer depends on.
type AuthService interface {
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, sid string) error
	Session(ctx context.Context, sid string) (*session.Session, error)
}

// rememberedSessionMaxAge matches the durable credential TTL so the cookie
// and the stored record expire together.
const rememberedSessionMaxAge = 30 * 24 * time.Hour

// AuthHandlers provides HTTP handlers for the session lifecycle. Each role
// variant binds its own login endpoint; logout and status are shared and
// dispatch on the stored role.
type AuthHandlers struct {
	Admin        AuthService
	Doctor       AuthService
	CookieDomain string
	Logger       *slog.Logger
	// OnLogout lets the router drop per-session server state (dashboard
	// snapshots) when the session ends. Optional.
	OnLogout func(sid string)
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type loginResponse struct {
	Role       session.Role    `json:"role"`
	User       session.Profile `json:"user"`
	RedirectTo string          `json:"redirect_to"`
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Admin)
}

// DoctorLogin handles POST /auth/doctor/login.
func (h *AuthHandlers) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Doctor)
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request, svc AuthService) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := svc.Login(r.Context(), service.LoginInput{
		Identifier: req.Phone,
		Secret:     req.Password,
		Remember:   req.Remember,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, result.SessionID, req.Remember)
	WriteJSON(w, http.StatusOK, loginResponse{
		Role:       result.Session.Role,
		User:       result.Session.Profile,
		RedirectTo: result.RedirectTo,
	})
}

// Logout handles POST /auth/logout. The upstream endpoint differs per role,
// so the stored session decides which variant tears it down. Logout always
// succeeds locally: a missing or unrecognized session still clears the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sid := sessionIDFromRequest(r)
	if sid != "" {
		svc := h.variantFor(r.Context(), sid)
		if err := svc.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
		if h.OnLogout != nil {
			h.OnLogout(sid)
		}
	}

	h.clearCookie(w, r, SessionCookieName)
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": "/login",
	})
}

// variantFor picks the auth service whose logout endpoint matches the stored
// role. Unknown or missing sessions fall back to the admin variant; its Logout
// still clears both credential scopes.
func (h *AuthHandlers) variantFor(ctx context.Context, sid string) AuthService {
	sess, err := h.Admin.Session(ctx, sid)
	if err == nil && sess != nil && sess.Role == session.RoleDoctor {
		return h.Doctor
	}
	return h.Admin
}

// Status handles GET /auth/status, reporting whether the request carries a
// live session and, if so, the identity the SPA should render.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sid := sessionIDFromRequest(r)
	if sid == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	sess, err := h.Admin.Session(r.Context(), sid)
	if err != nil {
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "session lookup failed"))
		return
	}
	if sess == nil {
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"role":          sess.Role,
		"display_name":  sess.DisplayName,
		"user":          sess.Profile,
	})
}

// setSessionCookie writes the opaque session cookie. Remembered sessions get
// a persistent cookie aligned with the durable record TTL; otherwise the
// cookie lives only for the browser session.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sid string, remember bool) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(rememberedSessionMaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
