package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/store"
)

// extractClientIP resolves the client address for request logging, checking
// X-Forwarded-For first (for proxied requests), then X-Real-IP, finally
// RemoteAddr.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP in the comma-separated list
		if before, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(before)
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}

// RequestLogger logs one line per request with method, path, status and
// duration, and puts a request-scoped logger on the context.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			ctx := logger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("addr", extractClientIP(r)).
				Logger().WithContext(r.Context())

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			zerolog.Ctx(ctx).Info().
				Int("status", rec.status).
				Dur("duration", time.Since(started)).
				Msg("http request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Recoverer converts panics into 500 responses instead of torn connections.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(r.Context()).Error().
					Any("panic", rec).
					Msg("Recovered from panic in handler")
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Error: errorBody{Kind: "internal", Message: "internal server error"},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionMiddleware verifies the bearer token and materializes the caller's
// session: identity, current organization and all memberships. Handlers
// downstream trust this context.
type SessionMiddleware struct {
	secret      []byte
	memberships store.MembershipStore
}

// NewSessionMiddleware creates the session middleware.
func NewSessionMiddleware(secret []byte, memberships store.MembershipStore) *SessionMiddleware {
	return &SessionMiddleware{
		secret:      secret,
		memberships: memberships,
	}
}

// Handler wraps next with session verification. Requests without a valid
// bearer token are rejected with 401 before reaching any service.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, apperr.Authentication("missing authorization header"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			writeError(w, apperr.Authentication("invalid authorization header format"))
			return
		}

		userID, orgID, err := auth.ParseSessionToken(m.secret, tokenString)
		if err != nil {
			writeError(w, apperr.Authentication("invalid session token"))
			return
		}

		memberships, err := m.memberships.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}

		session := &auth.Session{
			UserID:         userID,
			OrganizationID: orgID,
		}
		for _, membership := range memberships {
			session.Memberships = append(session.Memberships, *membership)
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// sessionFrom pulls the session placed on the context by the middleware.
// A missing session means the route was wired outside the middleware; treat
// it as unauthenticated rather than panicking.
func sessionFrom(r *http.Request) *auth.Session {
	session, _ := auth.SessionFromContext(r.Context())
	return session
}
