package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's role within a single organization.
type Role string

const (
	// RoleAdmin grants full task management within the organization.
	RoleAdmin Role = "ADMIN"
	// RoleMember is restricted to self-service updates on assigned tasks.
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Membership ties a user to an organization with a role.
// At most one membership exists per (organization, user) pair.
type Membership struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           Role
	CreatedAt      time.Time
}

// MemberInfo is the projection of a member returned by directory listings
// (assignee pickers, task joins).
type MemberInfo struct {
	UserID uuid.UUID
	Name   string
	Email  *string
	Image  *string
}
