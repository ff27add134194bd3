package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
)

// Sentinel errors for contact store operations
var (
	ErrContactNotFound      = errors.New("contact not found")
	ErrContactAlreadyExists = errors.New("contact already exists")
)

// ContactStore defines the interface for contact storage operations.
// Contacts carry an explicit organization column, so scoping here is a
// plain filter rather than a membership join.
type ContactStore interface {
	// Create creates a new contact.
	Create(ctx context.Context, contact *models.Contact) error

	// Get retrieves a contact by ID within an organization.
	// Returns ErrContactNotFound if absent or owned by another tenant.
	Get(ctx context.Context, contactID, orgID uuid.UUID) (*models.Contact, error)

	// Update persists the mutable fields of a contact.
	// Returns ErrContactNotFound if it doesn't exist in the organization.
	Update(ctx context.Context, contact *models.Contact) error

	// ListByOrganization returns the organization's contacts ordered by
	// creation time descending. A zero-value stage matches all stages.
	ListByOrganization(ctx context.Context, orgID uuid.UUID, stage models.ContactStage) ([]*models.Contact, error)

	// AppendTimelineEvent records an activity row on a contact's timeline.
	// Returns ErrContactNotFound if the contact doesn't exist.
	AppendTimelineEvent(ctx context.Context, event *models.ContactTimelineEvent) error

	// ListTimelineEvents returns a contact's timeline ordered by
	// occurrence time descending.
	ListTimelineEvents(ctx context.Context, contactID uuid.UUID) ([]*models.ContactTimelineEvent, error)
}
