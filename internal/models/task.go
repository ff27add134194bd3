package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusApproved   TaskStatus = "APPROVED"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusReview,
		TaskStatusCompleted, TaskStatusApproved:
		return true
	}
	return false
}

// RequiresSubmissionDetails reports whether tasks in this status carry
// submission details. Details are non-null iff the status is COMPLETED or
// REVIEW.
func (s TaskStatus) RequiresSubmissionDetails() bool {
	return s == TaskStatusCompleted || s == TaskStatusReview
}

// Task is a unit of assignable work. A task has no organization column of
// its own; its organization is derived through the assignee's membership.
type Task struct {
	TaskID            uuid.UUID // UUIDv7
	Title             string
	Description       *string
	Status            TaskStatus
	AssignedToID      uuid.UUID
	DueDate           *time.Time
	SubmissionDetails *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaskWithAssignee joins a task with the projection of its assignee used by
// the admin task listing.
type TaskWithAssignee struct {
	Task
	Assignee MemberInfo
}
