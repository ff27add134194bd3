package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{
		pool: pool,
	}
}

// Create adds a membership in the database. The primary key on
// (org_id, user_id) enforces the one-membership-per-pair invariant.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (
			org_id, user_id, role, created_at
		) VALUES (
			$1, $2, $3, $4
		)
	`

	_, err := s.pool.Exec(ctx, query,
		membership.OrganizationID,
		membership.UserID,
		membership.Role,
		membership.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMembershipAlreadyExists
		}
		return fmt.Errorf("failed to create membership: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("org_id", membership.OrganizationID.String()).
		Str("user_id", membership.UserID.String()).
		Str("role", string(membership.Role)).
		Msg("Created membership")

	return nil
}

// FindRole returns the user's role within the organization.
func (s *MembershipStore) FindRole(ctx context.Context, orgID, userID uuid.UUID) (models.Role, error) {
	query := `
		SELECT role
		FROM memberships
		WHERE org_id = $1 AND user_id = $2
	`

	var role models.Role
	err := s.pool.QueryRow(ctx, query, orgID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrMembershipNotFound
		}
		return "", fmt.Errorf("failed to find role: %w", mapPostgresError(err))
	}

	return role, nil
}

// ListMembersByRole returns members of the organization holding the given
// role, sorted by name ascending with ties broken by membership insertion
// order.
func (s *MembershipStore) ListMembersByRole(ctx context.Context, orgID uuid.UUID, role models.Role) ([]models.MemberInfo, error) {
	query := `
		SELECT u.user_id, u.name, u.email, u.image
		FROM memberships m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.org_id = $1 AND m.role = $2
		ORDER BY u.name ASC, m.created_at ASC, u.user_id ASC
	`

	rows, err := s.pool.Query(ctx, query, orgID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", mapPostgresError(err))
	}
	defer rows.Close()

	members := make([]models.MemberInfo, 0)
	for rows.Next() {
		var member models.MemberInfo
		err := rows.Scan(
			&member.UserID,
			&member.Name,
			&member.Email,
			&member.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// ListByUser returns all memberships held by a user across organizations.
func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT org_id, user_id, role, created_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		var membership models.Membership
		err := rows.Scan(
			&membership.OrganizationID,
			&membership.UserID,
			&membership.Role,
			&membership.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}
