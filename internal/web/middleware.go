package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/vistoria/internal/config"
)

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// userKey is the context key of the authenticated user's login name.
type userKey struct{}

// UserFromContext returns the login name stored by the authentication
// middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(userKey{}).(string)
	return name, ok
}

// Authenticator checks basic-auth credentials against bcrypt hashes.
type Authenticator struct {
	users map[string]config.User
}

// NewAuthenticator creates an authenticator for users.
func NewAuthenticator(users map[string]config.User) *Authenticator {
	return &Authenticator{users: users}
}

// decoyHash is compared against when the login name is unknown, so that
// unknown and known names take the same time to reject.
var decoyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("vistoria-decoy"), bcrypt.DefaultCost)
	if err != nil {
		return nil
	}
	return h
})

// Check reports whether password matches the stored hash of username.
func (a *Authenticator) Check(username, password string) bool {
	u, ok := a.users[username]
	if !ok || u.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password)) //nolint:errcheck // timing only
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Middleware rejects requests without valid basic-auth credentials.
func (a *Authenticator) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !a.Check(username, password) {
				logger.Warn("auth: rejected credentials",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"user", username,
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="vistoria", charset="UTF-8"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HashPassword returns the bcrypt hash stored in the configuration file.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
