package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a person who can hold memberships in one or more
// organizations, each with an independent role.
type User struct {
	UserID    uuid.UUID // UUIDv7
	Name      string
	Email     *string
	Image     *string // Avatar URL
	CreatedAt time.Time
	UpdatedAt time.Time
}
