// Package members resolves which organization members are eligible to
// receive new tasks.
package members

import (
	"context"
	"fmt"

	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// Service lists assignable members for the task creation flow.
type Service struct {
	memberships store.MembershipStore
}

// NewService creates a member listing service.
func NewService(memberships store.MembershipStore) *Service {
	return &Service{
		memberships: memberships,
	}
}

// AssignableMembers returns the MEMBER-role members of the caller's
// organization, sorted by name. Admins are not assignable. An organization
// with no members yields an empty slice, not an error.
func (s *Service) AssignableMembers(ctx context.Context, session *auth.Session) ([]models.MemberInfo, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}

	members, err := s.memberships.ListMembersByRole(ctx, session.OrganizationID, models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable members: %w", err)
	}

	return members, nil
}
