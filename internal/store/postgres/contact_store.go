package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// ContactStore implements store.ContactStore using PostgreSQL.
type ContactStore struct {
	pool *pgxpool.Pool
}

// NewContactStore creates a new PostgreSQL-backed contact store.
func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{
		pool: pool,
	}
}

// Create creates a new contact in the database.
func (s *ContactStore) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (
			contact_id, org_id, name, email, phone, stage, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := s.pool.Exec(ctx, query,
		contact.ContactID,
		contact.OrganizationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Stage,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrContactAlreadyExists
		}
		return fmt.Errorf("failed to create contact: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("contact_id", contact.ContactID.String()).
		Str("org_id", contact.OrganizationID.String()).
		Msg("Created contact")

	return nil
}

// Get retrieves a contact by ID within an organization.
func (s *ContactStore) Get(ctx context.Context, contactID, orgID uuid.UUID) (*models.Contact, error) {
	query := `
		SELECT contact_id, org_id, name, email, phone, stage, created_at, updated_at
		FROM contacts
		WHERE contact_id = $1 AND org_id = $2
	`

	var contact models.Contact
	err := s.pool.QueryRow(ctx, query, contactID, orgID).Scan(
		&contact.ContactID,
		&contact.OrganizationID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Stage,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", mapPostgresError(err))
	}

	return &contact, nil
}

// Update persists the mutable fields of a contact.
func (s *ContactStore) Update(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now()

	query := `
		UPDATE contacts SET
			name = $3,
			email = $4,
			phone = $5,
			stage = $6,
			updated_at = $7
		WHERE contact_id = $1 AND org_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		contact.ContactID,
		contact.OrganizationID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Stage,
		contact.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update contact: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrContactNotFound
	}

	return nil
}

// ListByOrganization returns the organization's contacts, newest first.
// A zero-value stage matches all stages.
func (s *ContactStore) ListByOrganization(ctx context.Context, orgID uuid.UUID, stage models.ContactStage) ([]*models.Contact, error) {
	query := `
		SELECT contact_id, org_id, name, email, phone, stage, created_at, updated_at
		FROM contacts
		WHERE org_id = $1 AND ($2 = '' OR stage = $2)
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID, string(stage))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		var contact models.Contact
		err := rows.Scan(
			&contact.ContactID,
			&contact.OrganizationID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.Stage,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// AppendTimelineEvent records an activity row on a contact's timeline.
func (s *ContactStore) AppendTimelineEvent(ctx context.Context, event *models.ContactTimelineEvent) error {
	query := `
		INSERT INTO contact_timeline_events (
			event_id, contact_id, actor_id, kind, payload, occurred_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		event.EventID,
		event.ContactID,
		event.ActorID,
		event.Kind,
		event.Payload,
		event.OccurredAt,
	)

	if err != nil {
		mapped := mapPostgresError(err)
		if errors.Is(mapped, store.ErrContactNotFound) {
			return store.ErrContactNotFound
		}
		return fmt.Errorf("failed to append timeline event: %w", mapped)
	}

	return nil
}

// ListTimelineEvents returns a contact's timeline, newest first.
func (s *ContactStore) ListTimelineEvents(ctx context.Context, contactID uuid.UUID) ([]*models.ContactTimelineEvent, error) {
	query := `
		SELECT event_id, contact_id, actor_id, kind, payload, occurred_at
		FROM contact_timeline_events
		WHERE contact_id = $1
		ORDER BY occurred_at DESC
	`

	rows, err := s.pool.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var events []*models.ContactTimelineEvent
	for rows.Next() {
		var event models.ContactTimelineEvent
		err := rows.Scan(
			&event.EventID,
			&event.ContactID,
			&event.ActorID,
			&event.Kind,
			&event.Payload,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline events: %w", err)
	}

	return events, nil
}
