package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Every membership, and
// transitively every task, belongs to exactly one organization.
type Organization struct {
	OrganizationID uuid.UUID // UUIDv7
	Name           string
	Slug           string // URL-safe identifier used by the dashboard routing
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
