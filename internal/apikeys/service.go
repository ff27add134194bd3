// Package apikeys manages organization-scoped developer credentials.
// Authentication by API key is handled elsewhere; this service only mints,
// lists and deletes key records.
package apikeys

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

const secretBytes = 32

// Service manages API keys. All operations require ADMIN in the caller's
// organization.
type Service struct {
	keys store.APIKeyStore
}

// NewService creates an API key service.
func NewService(keys store.APIKeyStore) *Service {
	return &Service{
		keys: keys,
	}
}

// CreatedKey is the result of minting a key: the record plus the secret,
// which is returned exactly once and never persisted.
type CreatedKey struct {
	Key    *models.APIKey
	Secret string
}

// Create mints a new API key for the caller's organization. The secret is
// 32 random bytes, base58-encoded; only its SHA-256 hash is stored.
func (s *Service) Create(ctx context.Context, session *auth.Session, description string, expiresAt *time.Time) (*CreatedKey, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if description == "" {
		return nil, apperr.Validation("description is required")
	}
	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can manage api keys")
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	secret := base58.Encode(raw)
	digest := sha256.Sum256([]byte(secret))

	key := &models.APIKey{
		APIKeyID:       uuid.Must(uuid.NewV7()),
		OrganizationID: session.OrganizationID,
		Description:    description,
		HashedSecret:   hex.EncodeToString(digest[:]),
		ExpiresAt:      expiresAt,
		CreatedAt:      time.Now(),
	}

	if err := s.keys.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	return &CreatedKey{Key: key, Secret: secret}, nil
}

// List returns the organization's key records, newest first. Hashes are
// included; secrets are unrecoverable.
func (s *Service) List(ctx context.Context, session *auth.Session) ([]*models.APIKey, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can manage api keys")
	}

	keys, err := s.keys.ListByOrganization(ctx, session.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	return keys, nil
}

// Delete removes a key from the caller's organization. Cross-tenant keys
// surface as not found.
func (s *Service) Delete(ctx context.Context, session *auth.Session, keyID uuid.UUID) error {
	if session == nil {
		return apperr.Authentication("no valid organization session")
	}
	if !session.IsAdmin() {
		return apperr.Forbidden("only admins can manage api keys")
	}

	if err := s.keys.Delete(ctx, keyID, session.OrganizationID); err != nil {
		if errors.Is(err, store.ErrAPIKeyNotFound) {
			return apperr.NotFound("api key not found in this organization")
		}
		return fmt.Errorf("failed to delete api key: %w", err)
	}

	return nil
}
