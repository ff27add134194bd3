package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
)

// Sentinel errors for membership store operations
var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipAlreadyExists = errors.New("membership already exists")
)

// MembershipStore is the membership directory: it resolves which users
// belong to an organization and with what role. Reads are side-effect free.
type MembershipStore interface {
	// Create adds a membership. Returns ErrMembershipAlreadyExists if the
	// (organization, user) pair already has one.
	Create(ctx context.Context, membership *models.Membership) error

	// FindRole returns the user's role within the organization.
	// Returns ErrMembershipNotFound if the user is not a member.
	FindRole(ctx context.Context, orgID, userID uuid.UUID) (models.Role, error)

	// ListMembersByRole returns members of the organization holding the
	// given role, sorted by name ascending with ties broken by membership
	// insertion order.
	ListMembersByRole(ctx context.Context, orgID uuid.UUID, role models.Role) ([]models.MemberInfo, error)

	// ListByUser returns all memberships held by a user, across
	// organizations.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)
}
