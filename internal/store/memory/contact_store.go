package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// ContactStore implements store.ContactStore using in-memory storage.
type ContactStore struct {
	mu sync.RWMutex

	contacts map[uuid.UUID]*models.Contact                // contact_id -> Contact
	events   map[uuid.UUID][]models.ContactTimelineEvent // contact_id -> timeline
}

// NewContactStore creates a new in-memory contact store.
func NewContactStore() *ContactStore {
	return &ContactStore{
		contacts: make(map[uuid.UUID]*models.Contact),
		events:   make(map[uuid.UUID][]models.ContactTimelineEvent),
	}
}

// Create creates a new contact in memory.
func (s *ContactStore) Create(ctx context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[contact.ContactID]; exists {
		return store.ErrContactAlreadyExists
	}

	clone := *contact
	s.contacts[contact.ContactID] = &clone

	return nil
}

// Get retrieves a contact by ID within an organization.
func (s *ContactStore) Get(ctx context.Context, contactID, orgID uuid.UUID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, exists := s.contacts[contactID]
	if !exists || contact.OrganizationID != orgID {
		return nil, store.ErrContactNotFound
	}

	clone := *contact
	return &clone, nil
}

// Update persists the mutable fields of a contact.
func (s *ContactStore) Update(ctx context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.contacts[contact.ContactID]
	if !exists || existing.OrganizationID != contact.OrganizationID {
		return store.ErrContactNotFound
	}

	contact.UpdatedAt = time.Now()

	clone := *contact
	s.contacts[contact.ContactID] = &clone

	return nil
}

// ListByOrganization returns the organization's contacts, newest first.
func (s *ContactStore) ListByOrganization(ctx context.Context, orgID uuid.UUID, stage models.ContactStage) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Contact
	for _, contact := range s.contacts {
		if contact.OrganizationID != orgID {
			continue
		}
		if stage != "" && contact.Stage != stage {
			continue
		}
		clone := *contact
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// AppendTimelineEvent records an activity row on a contact's timeline.
func (s *ContactStore) AppendTimelineEvent(ctx context.Context, event *models.ContactTimelineEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[event.ContactID]; !exists {
		return store.ErrContactNotFound
	}

	s.events[event.ContactID] = append(s.events[event.ContactID], *event)

	return nil
}

// ListTimelineEvents returns a contact's timeline, newest first.
func (s *ContactStore) ListTimelineEvents(ctx context.Context, contactID uuid.UUID) ([]*models.ContactTimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[contactID]
	result := make([]*models.ContactTimelineEvent, 0, len(events))
	for i := range events {
		clone := events[i]
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})

	return result, nil
}
