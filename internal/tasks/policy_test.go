package tasks

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/models"
)

func TestCanTransition_AdminUnrestricted(t *testing.T) {
	statuses := []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
		models.TaskStatusReview,
		models.TaskStatusCompleted,
		models.TaskStatusApproved,
	}

	// Admins may make any transition, forward or backward, assignee or
	// not, with or without details.
	for _, from := range statuses {
		for _, to := range statuses {
			for _, hasDetails := range []bool{true, false} {
				allowed, reason := CanTransition(models.RoleAdmin, false, from, to, hasDetails)
				require.True(t, allowed, "admin %s -> %s (details=%v): %s", from, to, hasDetails, reason)
			}
		}
	}
}

func TestCanTransition_NonAssigneeDenied(t *testing.T) {
	allowed, reason := CanTransition(models.RoleMember, false, models.TaskStatusPending, models.TaskStatusInProgress, false)
	require.False(t, allowed)
	require.Contains(t, reason, "permission")
}

func TestCanTransition_NoRoleDenied(t *testing.T) {
	// A caller with no membership in the organization has no role at all.
	allowed, _ := CanTransition("", false, models.TaskStatusPending, models.TaskStatusInProgress, false)
	require.False(t, allowed)
}

func TestCanTransition_MemberStatusRestrictions(t *testing.T) {
	tests := []struct {
		name       string
		to         models.TaskStatus
		hasDetails bool
		allowed    bool
	}{
		{name: "in progress without details", to: models.TaskStatusInProgress, hasDetails: false, allowed: true},
		{name: "in progress with details", to: models.TaskStatusInProgress, hasDetails: true, allowed: false},
		{name: "completed with details", to: models.TaskStatusCompleted, hasDetails: true, allowed: true},
		{name: "completed without details", to: models.TaskStatusCompleted, hasDetails: false, allowed: false},
		{name: "review with details", to: models.TaskStatusReview, hasDetails: true, allowed: true},
		{name: "review without details", to: models.TaskStatusReview, hasDetails: false, allowed: false},
		{name: "pending denied", to: models.TaskStatusPending, hasDetails: false, allowed: false},
		{name: "approved denied", to: models.TaskStatusApproved, hasDetails: false, allowed: false},
		{name: "approved with details denied", to: models.TaskStatusApproved, hasDetails: true, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanTransition(models.RoleMember, true, models.TaskStatusPending, tt.to, tt.hasDetails)
			require.Equal(t, tt.allowed, allowed, reason)
			if !tt.allowed {
				require.NotEmpty(t, reason)
			}
		})
	}
}
