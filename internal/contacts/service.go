// Package contacts manages an organization's contact records and their
// activity timelines.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/cache"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// Service owns contact rows and their timeline events. Members of the
// organization may read; writes require ADMIN.
type Service struct {
	contacts    store.ContactStore
	invalidator cache.Invalidator
}

// NewService creates a contact service.
func NewService(contacts store.ContactStore, invalidator cache.Invalidator) *Service {
	return &Service{
		contacts:    contacts,
		invalidator: invalidator,
	}
}

// CreateInput is the payload for creating a contact.
type CreateInput struct {
	Name  string
	Email *string
	Phone *string
	Stage models.ContactStage
}

// Create inserts a new contact in the caller's organization. Admin only.
func (s *Service) Create(ctx context.Context, session *auth.Session, in CreateInput) (*models.Contact, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can create contacts")
	}

	stage := in.Stage
	if stage == "" {
		stage = models.ContactStageLead
	}
	if !stage.Valid() {
		return nil, apperr.Validation("unknown contact stage %q", stage)
	}

	now := time.Now()
	contact := &models.Contact{
		ContactID:      uuid.Must(uuid.NewV7()),
		OrganizationID: session.OrganizationID,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Stage:          stage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.invalidate(ctx, cache.OrgContactsTag(session.OrganizationID))

	return contact, nil
}

// Get retrieves a contact in the caller's organization. Any member may
// read; cross-tenant contacts surface as not found.
func (s *Service) Get(ctx context.Context, session *auth.Session, contactID uuid.UUID) (*models.Contact, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if _, ok := session.Role(); !ok {
		return nil, apperr.Forbidden("you are not a member of this organization")
	}

	contact, err := s.contacts.Get(ctx, contactID, session.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, apperr.NotFound("contact not found in this organization")
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	return contact, nil
}

// List returns the organization's contacts, newest first, optionally
// filtered by stage.
func (s *Service) List(ctx context.Context, session *auth.Session, stage models.ContactStage) ([]*models.Contact, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if _, ok := session.Role(); !ok {
		return nil, apperr.Forbidden("you are not a member of this organization")
	}

	contacts, err := s.contacts.ListByOrganization(ctx, session.OrganizationID, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

// UpdateStage moves a contact to a new pipeline stage and records the
// change on its timeline. Admin only.
func (s *Service) UpdateStage(ctx context.Context, session *auth.Session, contactID uuid.UUID, stage models.ContactStage) (*models.Contact, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can update contacts")
	}
	if !stage.Valid() {
		return nil, apperr.Validation("unknown contact stage %q", stage)
	}

	contact, err := s.contacts.Get(ctx, contactID, session.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, apperr.NotFound("contact not found in this organization")
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	previous := contact.Stage
	contact.Stage = stage

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	event := &models.ContactTimelineEvent{
		EventID:    uuid.Must(uuid.NewV7()),
		ContactID:  contact.ContactID,
		ActorID:    session.UserID,
		Kind:       "stage_change",
		Payload:    fmt.Sprintf("%s -> %s", previous, stage),
		OccurredAt: time.Now(),
	}
	if err := s.contacts.AppendTimelineEvent(ctx, event); err != nil {
		// The stage change itself committed; a missing timeline row is
		// not worth failing the request over.
		log.Warn().Err(err).Str("contact_id", contactID.String()).Msg("Failed to record stage change")
	}

	s.invalidate(ctx, cache.OrgContactsTag(session.OrganizationID))

	return contact, nil
}

// AddNote appends a note to a contact's timeline. Any member may comment.
func (s *Service) AddNote(ctx context.Context, session *auth.Session, contactID uuid.UUID, note string) (*models.ContactTimelineEvent, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if _, ok := session.Role(); !ok {
		return nil, apperr.Forbidden("you are not a member of this organization")
	}
	if note == "" {
		return nil, apperr.Validation("note is required")
	}

	// Scoped read first so a cross-tenant contact id yields not-found.
	if _, err := s.contacts.Get(ctx, contactID, session.OrganizationID); err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, apperr.NotFound("contact not found in this organization")
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	event := &models.ContactTimelineEvent{
		EventID:    uuid.Must(uuid.NewV7()),
		ContactID:  contactID,
		ActorID:    session.UserID,
		Kind:       "note",
		Payload:    note,
		OccurredAt: time.Now(),
	}

	if err := s.contacts.AppendTimelineEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append note: %w", err)
	}

	return event, nil
}

// Timeline returns a contact's activity rows, newest first.
func (s *Service) Timeline(ctx context.Context, session *auth.Session, contactID uuid.UUID) ([]*models.ContactTimelineEvent, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}
	if _, ok := session.Role(); !ok {
		return nil, apperr.Forbidden("you are not a member of this organization")
	}

	if _, err := s.contacts.Get(ctx, contactID, session.OrganizationID); err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			return nil, apperr.NotFound("contact not found in this organization")
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	events, err := s.contacts.ListTimelineEvents(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}

	return events, nil
}

func (s *Service) invalidate(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		if err := s.invalidator.Invalidate(ctx, tag); err != nil {
			log.Warn().Err(err).Str("tag", tag).Msg("Cache invalidation failed")
		}
	}
}
