package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
)

// Sentinel errors for API key store operations
var (
	ErrAPIKeyNotFound      = errors.New("api key not found")
	ErrAPIKeyAlreadyExists = errors.New("api key already exists")
)

// APIKeyStore defines the interface for API key storage operations.
// Only the hash of a key's secret is ever stored.
type APIKeyStore interface {
	// Create creates a new API key record.
	Create(ctx context.Context, key *models.APIKey) error

	// ListByOrganization returns the organization's keys ordered by
	// creation time descending.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.APIKey, error)

	// Delete removes a key by ID within an organization.
	// Returns ErrAPIKeyNotFound if absent or owned by another tenant.
	Delete(ctx context.Context, keyID, orgID uuid.UUID) error
}
