package upstream

// Package upstream wraps every outbound call to the clinic REST API. All
// requests pass through one shaping step (bearer attachment, fixed headers)
// and all responses through one classification step (session teardown on 401,
// notice-bearing errors for 403/5xx/network, verbatim pass-through of
// structured domain rejections). Page-level handlers never touch the raw
// transport.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

// CredentialSource is the slice of the credential store the client needs:
// token lookup for request shaping and teardown on authentication rejection.
type CredentialSource interface {
	Read(ctx context.Context, sid string) (*session.Session, error)
	Clear(ctx context.Context, sid string) error
}

// bypassHeader skips the tunneling proxy's interstitial warning page.
// Carried on every request, authenticated or not.
const bypassHeader = "ngrok-skip-browser-warning"

// defaultTimeout bounds upstream calls that carry no tighter deadline.
// The transport default of "no timeout" is a policy gap, not a feature.
const defaultTimeout = 30 * time.Second

// Options groups dependencies for Client.
type Options struct {
	BaseURL     string
	Credentials CredentialSource
	Logger      *slog.Logger

	// Timeout overrides the default upstream timeout. Zero selects the default.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is the shared upstream HTTP client.
type Client struct {
	base     *url.URL
	http     *http.Client
	creds    CredentialSource
	logger   *slog.Logger
	teardown singleflight.Group
}

// New constructs an upstream client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base URL must be absolute, got %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   base,
		http:   httpClient,
		creds:  opts.Credentials,
		logger: logger,
	}, nil
}

// requestSpec describes one outbound call.
type requestSpec struct {
	method string
	path   string
	query  url.Values
	body   any            // JSON-encoded when non-nil
	form   *multipartForm // overrides body with multipart encoding

	// skipTeardown suppresses 401-triggered session teardown. Set for the
	// auth endpoints themselves: a rejected login must not clear anything,
	// and logout handles its own cleanup.
	skipTeardown bool
}

// do shapes, sends, and classifies one upstream request. A non-nil out
// receives the decoded 2xx JSON body. sid may be empty for unauthenticated
// calls; a missing token is not an error, the request simply goes out bare.
func (c *Client) do(ctx context.Context, sid string, spec requestSpec, out any) error {
	req, err := c.buildRequest(ctx, sid, spec)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No response received: transport failure, no session mutation.
		return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "network error")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeNetwork, "read upstream response")
	}

	if err := c.classify(ctx, sid, spec, resp.StatusCode, body); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "decode upstream response")
	}
	return nil
}

const maxResponseBytes = 16 << 20

func (c *Client) buildRequest(ctx context.Context, sid string, spec requestSpec) (*http.Request, error) {
	u := c.base.JoinPath(spec.path)
	if len(spec.query) > 0 {
		u.RawQuery = spec.query.Encode()
	}

	var body io.Reader
	contentType := "application/json"
	switch {
	case spec.form != nil:
		buf, ct, err := spec.form.encode()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode multipart body")
		}
		body = buf
		contentType = ct
	case spec.body != nil:
		raw, err := json.Marshal(spec.body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, u.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build upstream request")
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set(bypassHeader, "true")
	req.Header.Set("Accept", "application/json")

	if token := c.lookupToken(ctx, sid); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// lookupToken returns the active bearer token, or "" when no session exists.
// Absence is not an error: the request proceeds unauthenticated.
func (c *Client) lookupToken(ctx context.Context, sid string) string {
	if sid == "" || c.creds == nil {
		return ""
	}
	sess, err := c.creds.Read(ctx, sid)
	if err != nil {
		c.logger.WarnContext(ctx, "credential read failed, sending unauthenticated", "error", err)
		return ""
	}
	if sess == nil {
		return ""
	}
	return sess.Token
}

// classify maps an upstream status to the shared failure taxonomy. It handles
// side effects (session teardown) and then still returns an error so the
// caller can apply its own fallback; classification never swallows failures.
func (c *Client) classify(ctx context.Context, sid string, spec requestSpec, status int, body []byte) error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized:
		if spec.skipTeardown {
			// Rejected login or logout: no session to tear down, and the
			// server's own payload must reach the caller verbatim.
			if msg, details := parseUpstreamMessage(body); msg != "" {
				return apperrors.Domain(msg, details)
			}
			return apperrors.Unauthorized("invalid credentials")
		}
		if sid != "" {
			c.teardownSession(ctx, sid)
		}
		return apperrors.Unauthorized("session expired")
	case status == http.StatusForbidden:
		// Permissions issue, not an authentication issue: session stays intact.
		return apperrors.Forbidden("you do not have permission to access this resource")
	case status >= 500:
		return apperrors.Upstreamf("server error (status %d)", status)
	default:
		msg, details := parseUpstreamMessage(body)
		if msg == "" {
			msg = strings.ToLower(http.StatusText(status))
		}
		if status == http.StatusNotFound && len(details) == 0 {
			return apperrors.NotFound(msg)
		}
		return apperrors.Domain(msg, details)
	}
}

// teardownSession clears both credential scopes exactly once even when
// several in-flight requests observe a 401 in the same instant: concurrent
// callers collapse onto one singleflight execution per session ID.
func (c *Client) teardownSession(ctx context.Context, sid string) {
	_, _, _ = c.teardown.Do(sid, func() (any, error) {
		if err := c.creds.Clear(ctx, sid); err != nil {
			c.logger.ErrorContext(ctx, "session teardown failed", "error", err)
			return nil, nil
		}
		c.logger.InfoContext(ctx, "session expired, credentials cleared")
		return nil, nil
	})
}

// errorBody is the upstream 4xx payload: message is a string or a string array.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

func parseUpstreamMessage(body []byte) (string, []string) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return "", nil
	}

	if len(eb.Message) > 0 {
		var single string
		if err := json.Unmarshal(eb.Message, &single); err == nil {
			return single, nil
		}
		var many []string
		if err := json.Unmarshal(eb.Message, &many); err == nil && len(many) > 0 {
			return many[0], many
		}
	}
	return eb.Error, nil
}
