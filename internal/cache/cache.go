// Package cache provides tag-based invalidation of cached listings.
// Writes treat invalidation as fire-and-forget: a failed invalidation is
// logged and never propagated, so a reader may briefly observe a stale
// listing between a write committing and the tag clearing.
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Invalidator clears cached entries by tag.
type Invalidator interface {
	// Invalidate drops every cached entry under the tag. Implementations
	// must be safe for concurrent use.
	Invalidate(ctx context.Context, tag string) error
}

// OrgTasksTag is the tag covering an organization's task listings.
func OrgTasksTag(orgID uuid.UUID) string {
	return fmt.Sprintf("tasks:org:%s", orgID)
}

// TaskTag is the tag covering a single task.
func TaskTag(taskID uuid.UUID) string {
	return fmt.Sprintf("task:%s", taskID)
}

// OrgContactsTag is the tag covering an organization's contact listings.
func OrgContactsTag(orgID uuid.UUID) string {
	return fmt.Sprintf("contacts:org:%s", orgID)
}
