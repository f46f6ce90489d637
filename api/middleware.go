package api

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
	"github.com/contesthub/contest-platform-backend/services"
)

// userFinder is the slice of the user repository the gates need.
type userFinder interface {
	FindByEmail(email string) (*models.User, error)
}

type authMiddleware struct {
	verifier  services.TokenVerifier
	users     userFinder
	responder Responder
}

func newAuthMiddleware(verifier services.TokenVerifier, users userFinder) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		verifier:  verifier,
		users:     users,
		responder: NewResponder(logger),
	}
}

// authenticate verifies the bearer credential with the identity provider and
// exposes the verified email to downstream handlers.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.responder.WriteError(w, errs.NewUnauthorizedError("missing bearer credential"))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			m.responder.WriteError(w, errs.NewUnauthorizedError("missing bearer credential"))
			return
		}

		email, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			m.responder.WriteError(w, errs.NewUnauthorizedError("invalid credential"))
			return
		}

		updatedCtx := ctxWithEmail(r.Context(), email)
		next.ServeHTTP(w, r.WithContext(updatedCtx))
	})
}

// requireRole looks up the caller's user record and allows the request only
// when the role matches. Runs strictly after authenticate. The refusal
// carries the caller's actual role for client diagnostics.
func (m authMiddleware) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := ctxGetEmail(r.Context())
			if err != nil {
				m.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
				return
			}

			user, err := m.users.FindByEmail(email)
			if err != nil {
				m.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
				return
			}
			if user == nil {
				m.responder.WriteError(w, errs.NewForbiddenError(fmt.Sprintf("%s access required", role), "none"))
				return
			}
			if user.Role != role {
				m.responder.WriteError(w, errs.NewForbiddenError(fmt.Sprintf("%s access required", role), string(user.Role)))
				return
			}

			updatedCtx := ctxWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(updatedCtx))
		})
	}
}

func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return m.requireRole(models.RoleAdmin)(next)
}

func (m authMiddleware) requireCreator(next http.Handler) http.Handler {
	return m.requireRole(models.RoleCreator)(next)
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		// Log 500s that weren't panics (e.g. manually set by handlers)
		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
