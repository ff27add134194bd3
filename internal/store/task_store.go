package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
)

// Sentinel errors for task store operations
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAlreadyExists = errors.New("task already exists")
)

// TaskStore defines the interface for task storage operations.
//
// Tasks have no organization column; a task's organization is derived from
// the assignee's membership. The org-scoped reads perform that join inside
// the store so tenant-isolation logic lives in exactly one place and callers
// never join themselves.
type TaskStore interface {
	// Create inserts a new task.
	// Returns ErrTaskAlreadyExists if the ID is already taken.
	Create(ctx context.Context, task *models.Task) error

	// Get retrieves a task by ID with no tenant scoping. Intended for
	// assignee-owned reads; org-visible reads go through GetInOrganization.
	Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error)

	// GetInOrganization retrieves a task only if its assignee holds a
	// membership in orgID. A task outside the organization surfaces as
	// ErrTaskNotFound, not a permission error, so existence does not leak
	// across tenants.
	GetInOrganization(ctx context.Context, taskID, orgID uuid.UUID) (*models.Task, error)

	// Update persists the mutable fields of an existing task
	// (status, submission details, title, description, due date).
	// Returns ErrTaskNotFound if the task doesn't exist.
	Update(ctx context.Context, task *models.Task) error

	// ListByOrganization returns all tasks whose assignee is a member of
	// the organization, joined with the assignee projection, ordered by
	// creation time descending.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.TaskWithAssignee, error)

	// ListByAssignee returns tasks assigned to the user, ordered by due
	// date ascending with tasks lacking a due date last.
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
}
