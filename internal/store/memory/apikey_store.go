package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// APIKeyStore implements store.APIKeyStore using in-memory storage.
type APIKeyStore struct {
	mu sync.RWMutex

	keys map[uuid.UUID]*models.APIKey // api_key_id -> APIKey
}

// NewAPIKeyStore creates a new in-memory API key store.
func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{
		keys: make(map[uuid.UUID]*models.APIKey),
	}
}

// Create creates a new API key record in memory.
func (s *APIKeyStore) Create(ctx context.Context, key *models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key.APIKeyID]; exists {
		return store.ErrAPIKeyAlreadyExists
	}

	clone := *key
	s.keys[key.APIKeyID] = &clone

	return nil
}

// ListByOrganization returns the organization's keys, newest first.
func (s *APIKeyStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.APIKey
	for _, key := range s.keys {
		if key.OrganizationID != orgID {
			continue
		}
		clone := *key
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Delete removes a key by ID within an organization.
func (s *APIKeyStore) Delete(ctx context.Context, keyID, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, exists := s.keys[keyID]
	if !exists || key.OrganizationID != orgID {
		return store.ErrAPIKeyNotFound
	}

	delete(s.keys, keyID)

	return nil
}
