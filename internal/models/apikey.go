package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a developer credential scoped to an organization. The secret is
// shown once at creation time; only its SHA-256 hash is persisted.
type APIKey struct {
	APIKeyID       uuid.UUID // UUIDv7
	OrganizationID uuid.UUID
	Description    string
	HashedSecret   string // hex-encoded SHA-256 of the base58 secret
	LastUsedAt     *time.Time
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}

// IsExpired reports whether the key has an expiry in the past.
func (k *APIKey) IsExpired() bool {
	return k.ExpiresAt != nil && time.Now().After(*k.ExpiresAt)
}
