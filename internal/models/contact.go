package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStage tracks where a contact sits in the pipeline.
type ContactStage string

const (
	ContactStageLead          ContactStage = "LEAD"
	ContactStageQualified     ContactStage = "QUALIFIED"
	ContactStageOpportunity   ContactStage = "OPPORTUNITY"
	ContactStageProposal      ContactStage = "PROPOSAL"
	ContactStageInNegotiation ContactStage = "IN_NEGOTIATION"
	ContactStageWon           ContactStage = "WON"
	ContactStageLost          ContactStage = "LOST"
)

// Valid reports whether s is a known pipeline stage.
func (s ContactStage) Valid() bool {
	switch s {
	case ContactStageLead, ContactStageQualified, ContactStageOpportunity,
		ContactStageProposal, ContactStageInNegotiation, ContactStageWon,
		ContactStageLost:
		return true
	}
	return false
}

// Contact is a CRM record owned directly by an organization.
// Unlike tasks, contacts carry an explicit organization column.
type Contact struct {
	ContactID      uuid.UUID // UUIDv7
	OrganizationID uuid.UUID
	Name           string
	Email          *string
	Phone          *string
	Stage          ContactStage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContactTimelineEvent is an activity row on a contact's timeline
// (notes, stage changes). Aggregation across contacts is out of scope;
// the store only appends and lists per contact.
type ContactTimelineEvent struct {
	EventID    uuid.UUID // UUIDv7
	ContactID  uuid.UUID
	ActorID    uuid.UUID // User who performed the action
	Kind       string    // e.g. "note", "stage_change"
	Payload    string
	OccurredAt time.Time
}
