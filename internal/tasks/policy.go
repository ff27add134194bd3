package tasks

import (
	"github.com/taskdesk/taskdesk/internal/models"
)

// Statuses a non-admin assignee may move a task into. PENDING and APPROVED
// are reserved for admins.
var memberAllowedStatuses = []models.TaskStatus{
	models.TaskStatusInProgress,
	models.TaskStatusCompleted,
	models.TaskStatusReview,
}

// CanTransition decides whether a caller may move a task between statuses.
// It is pure so the permission rules can be tested without storage.
//
// Admin transitions are unrestricted, including backward moves and the
// submission-details consistency rule; this mirrors the product behavior
// where an admin approval force-clears details. The from status is part of
// the contract but carries no restriction today for any role.
func CanTransition(role models.Role, isAssignee bool, from, to models.TaskStatus, hasDetails bool) (bool, string) {
	if role == models.RoleAdmin {
		return true, ""
	}

	if !isAssignee {
		return false, "you do not have permission to update this task"
	}

	allowed := false
	for _, s := range memberAllowedStatuses {
		if to == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, "you can only update the status to IN_PROGRESS, COMPLETED, or REVIEW"
	}

	requiresDetails := to.RequiresSubmissionDetails()
	if hasDetails && !requiresDetails {
		return false, "submission details can only be added when status is COMPLETED or REVIEW"
	}
	if !hasDetails && requiresDetails {
		return false, "submission details are required when marking a task as COMPLETED or REVIEW"
	}

	return true, ""
}
