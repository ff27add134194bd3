// Package auth carries the request-scoped session identity. Session
// issuance (login, OAuth) is an external collaborator; this package only
// verifies tokens it is handed and materializes the session the services
// trust.
package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
)

// Session is the authenticated caller context for one request: who the
// caller is, which organization they are currently acting in, and every
// membership they hold. Services trust this context and do not re-derive it.
type Session struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Memberships    []models.Membership
}

// RoleIn returns the caller's role in the given organization.
func (s *Session) RoleIn(orgID uuid.UUID) (models.Role, bool) {
	for _, m := range s.Memberships {
		if m.OrganizationID == orgID {
			return m.Role, true
		}
	}
	return "", false
}

// Role returns the caller's role in the current organization.
func (s *Session) Role() (models.Role, bool) {
	return s.RoleIn(s.OrganizationID)
}

// IsAdmin reports whether the caller is an admin of the current
// organization.
func (s *Session) IsAdmin() bool {
	role, ok := s.Role()
	return ok && role == models.RoleAdmin
}

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the session from the request context.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	return session, ok
}
