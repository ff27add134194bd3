// Package tasks implements the task lifecycle: role-gated creation and
// status transitions over organization-scoped tasks.
package tasks

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

// Service is the only writer of task rows. Each operation is an isolated
// request-scoped unit of work: no locking beyond the store's own guarantees,
// so concurrent updates to one task are last-write-wins.
type Service struct {
	tasks       store.TaskStore
	memberships store.MembershipStore
	invalidator cache.Invalidator
}

// NewService creates a task lifecycle service.
func NewService(tasks store.TaskStore, memberships store.MembershipStore, invalidator cache.Invalidator) *Service {
	return &Service{
		tasks:       tasks,
		memberships: memberships,
		invalidator: invalidator,
	}
}

// CreateInput is the payload for creating a task.
type CreateInput struct {
	Title        string
	Description  *string
	AssignedToID uuid.UUID
	DueDate      *time.Time
}

// Create inserts a new PENDING task for a member of the caller's
// organization. Admin only; the assignee must hold a membership in the
// caller's current organization.
func (s *Service) Create(ctx context.Context, session *auth.Session, in CreateInput) (*models.Task, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}

	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if in.AssignedToID == uuid.Nil {
		return nil, apperr.Validation("assigned user is required")
	}

	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can create tasks")
	}

	// The assignee must be a member of the organization; the role itself
	// doesn't matter for creation.
	if _, err := s.memberships.FindRole(ctx, session.OrganizationID, in.AssignedToID); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return nil, apperr.NotFound("assigned user not found in this organization")
		}
		return nil, fmt.Errorf("failed to verify assignee membership: %w", err)
	}

	now := time.Now()
	task := &models.Task{
		TaskID:       uuid.Must(uuid.NewV7()),
		Title:        in.Title,
		Description:  in.Description,
		Status:       models.TaskStatusPending,
		AssignedToID: in.AssignedToID,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.invalidate(ctx, cache.OrgTasksTag(session.OrganizationID))

	return task, nil
}

// UpdateStatus moves a task to a new status. Admins of the task's
// organization may make any transition; the assignee is limited to
// IN_PROGRESS, COMPLETED and REVIEW with the submission-details consistency
// rule enforced. Tasks outside the caller's organization surface as not
// found.
func (s *Service) UpdateStatus(ctx context.Context, session *auth.Session, taskID uuid.UUID, newStatus models.TaskStatus, submissionDetails *string) (*models.Task, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}

	if !newStatus.Valid() {
		return nil, apperr.Validation("unknown task status %q", newStatus)
	}

	task, err := s.tasks.GetInOrganization(ctx, taskID, session.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, apperr.NotFound("task not found in this organization")
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	role, _ := session.Role()
	isAssignee := task.AssignedToID == session.UserID
	hasDetails := submissionDetails != nil && *submissionDetails != ""

	if allowed, reason := CanTransition(role, isAssignee, task.Status, newStatus, hasDetails); !allowed {
		return nil, apperr.Forbidden("%s", reason)
	}

	task.Status = newStatus
	if newStatus.RequiresSubmissionDetails() {
		task.SubmissionDetails = submissionDetails
	} else {
		// Forced to null outside COMPLETED/REVIEW regardless of caller
		// role or any supplied value.
		task.SubmissionDetails = nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.invalidate(ctx,
		cache.OrgTasksTag(session.OrganizationID),
		cache.TaskTag(task.TaskID),
	)

	return task, nil
}

// AdminTasks returns every task whose assignee is a member of the caller's
// organization, joined with the assignee, newest first. Admin only.
func (s *Service) AdminTasks(ctx context.Context, session *auth.Session) ([]*models.TaskWithAssignee, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid organization session")
	}

	if !session.IsAdmin() {
		return nil, apperr.Forbidden("only admins can view all organization tasks")
	}

	tasks, err := s.tasks.ListByOrganization(ctx, session.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization tasks: %w", err)
	}

	return tasks, nil
}

// OwnTasks returns the caller's assigned tasks ordered by due date
// ascending, tasks without a due date last.
func (s *Service) OwnTasks(ctx context.Context, session *auth.Session) ([]*models.Task, error) {
	if session == nil {
		return nil, apperr.Authentication("no valid session")
	}

	tasks, err := s.tasks.ListByAssignee(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	return tasks, nil
}

// invalidate clears cache tags after a write. Failures are logged and
// swallowed; invalidation is not atomic with the write.
func (s *Service) invalidate(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		if err := s.invalidator.Invalidate(ctx, tag); err != nil {
			log.Warn().Err(err).Str("tag", tag).Msg("Cache invalidation failed")
		}
	}
}
