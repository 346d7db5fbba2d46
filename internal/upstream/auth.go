package upstream

import (
	"context"
	"net/http"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
)

// loginResponse is the upstream login payload. The auth service, not this
// layer, decides whether a missing token or user makes the response invalid.
type loginResponse struct {
	Token string           `json:"token"`
	User  *session.Profile `json:"user"`
}

// AuthClient binds the shared client to one role's auth endpoints. The admin
// and doctor variants differ only in paths; everything else is identical.
type AuthClient struct {
	c          *Client
	loginPath  string
	logoutPath string
}

// AdminAuth returns the admin login/logout surface.
func (c *Client) AdminAuth() *AuthClient {
	return &AuthClient{
		c:          c,
		loginPath:  "/api/admin/adminLogin",
		logoutPath: "/api/logout",
	}
}

// DoctorAuth returns the doctor login/logout surface.
func (c *Client) DoctorAuth() *AuthClient {
	return &AuthClient{
		c:          c,
		loginPath:  "/api/doctor/doctorLogin",
		logoutPath: "/api/doctor/doctorLogout",
	}
}

// Login posts credentials and returns the upstream token and profile as-is.
// The call is unauthenticated and never triggers session teardown: a 401
// here means bad credentials, not an expired session.
func (a *AuthClient) Login(ctx context.Context, identifier, secret string) (string, *session.Profile, error) {
	var out loginResponse
	err := a.c.do(ctx, "", requestSpec{
		method: http.MethodPost,
		path:   a.loginPath,
		body: map[string]string{
			"phone":    identifier,
			"password": secret,
		},
		skipTeardown: true,
	}, &out)
	if err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

// Logout notifies the upstream that the session's bearer token is being
// abandoned. Teardown is suppressed: the auth service clears local state
// itself, unconditionally, whatever this call returns.
func (a *AuthClient) Logout(ctx context.Context, sid string) error {
	return a.c.do(ctx, sid, requestSpec{
		method:       http.MethodPost,
		path:         a.logoutPath,
		skipTeardown: true,
	}, nil)
}
