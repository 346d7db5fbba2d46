package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/clinicdesk/ui-gateway/internal/domain/session"
	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

// SessionSource resolves a gateway session ID into the active session.
// A nil session with a nil error means no valid session exists.
type SessionSource interface {
	Session(ctx context.Context, sid string) (*session.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole guards a route tree behind one exact role. The stored role is
// resolved through session.ResolveRole: anything it does not recognize is
// treated as unauthenticated, never mapped to a different tree. A missing or
// invalid session yields 401 with a login redirect; a valid session of the
// other role yields 403 and leaves the session intact.
func RequireRole(sessions SessionSource, required session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionIDFromRequest(r)
			if sid == "" {
				WriteAppError(w, apperrors.Unauthorized("authentication required"))
				return
			}

			sess, err := sessions.Session(r.Context(), sid)
			if err != nil {
				WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "session lookup failed"))
				return
			}
			if sess == nil {
				WriteAppError(w, apperrors.Unauthorized("session expired"))
				return
			}

			role, ok := session.ResolveRole(string(sess.Role))
			if !ok {
				WriteAppError(w, apperrors.Unauthorized("unrecognized role"))
				return
			}
			if role != required {
				WriteAppError(w, apperrors.Forbidden("insufficient permissions"))
				return
			}

			ctx := SetSessionInContext(r.Context(), sid, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
