package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// APIKeyStore implements store.APIKeyStore using PostgreSQL.
type APIKeyStore struct {
	pool *pgxpool.Pool
}

// NewAPIKeyStore creates a new PostgreSQL-backed API key store.
func NewAPIKeyStore(pool *pgxpool.Pool) *APIKeyStore {
	return &APIKeyStore{
		pool: pool,
	}
}

// Create creates a new API key record in the database.
func (s *APIKeyStore) Create(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (
			api_key_id, org_id, description, hashed_secret,
			last_used_at, expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		key.APIKeyID,
		key.OrganizationID,
		key.Description,
		key.HashedSecret,
		key.LastUsedAt,
		key.ExpiresAt,
		key.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAPIKeyAlreadyExists
		}
		return fmt.Errorf("failed to create api key: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("api_key_id", key.APIKeyID.String()).
		Str("org_id", key.OrganizationID.String()).
		Msg("Created api key")

	return nil
}

// ListByOrganization returns the organization's keys, newest first.
func (s *APIKeyStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.APIKey, error) {
	query := `
		SELECT api_key_id, org_id, description, hashed_secret,
			last_used_at, expires_at, created_at
		FROM api_keys
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var key models.APIKey
		err := rows.Scan(
			&key.APIKeyID,
			&key.OrganizationID,
			&key.Description,
			&key.HashedSecret,
			&key.LastUsedAt,
			&key.ExpiresAt,
			&key.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api keys: %w", err)
	}

	return keys, nil
}

// Delete removes a key by ID within an organization.
func (s *APIKeyStore) Delete(ctx context.Context, keyID, orgID uuid.UUID) error {
	query := `DELETE FROM api_keys WHERE api_key_id = $1 AND org_id = $2`

	result, err := s.pool.Exec(ctx, query, keyID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrAPIKeyNotFound
	}

	log.Info().
		Str("api_key_id", keyID.String()).
		Msg("Deleted api key")

	return nil
}
