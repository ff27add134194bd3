package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/auth"
	"github.com/taskdesk/taskdesk/internal/cache"
	"github.com/taskdesk/taskdesk/internal/models"
	memorystore "github.com/taskdesk/taskdesk/internal/store/memory"
	"github.com/taskdesk/taskdesk/internal/tasks"
)

type fixture struct {
	users       *memorystore.UserStore
	memberships *memorystore.MembershipStore
	tasks       *memorystore.TaskStore
	svc         *tasks.Service

	orgA uuid.UUID
	orgB uuid.UUID

	adminA  uuid.UUID // ADMIN in org A
	memberA uuid.UUID // MEMBER in org A
	otherA  uuid.UUID // second MEMBER in org A
	memberB uuid.UUID // MEMBER in org B only
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users: memorystore.NewUserStore(),
		orgA:  uuid.Must(uuid.NewV7()),
		orgB:  uuid.Must(uuid.NewV7()),
	}
	f.memberships = memorystore.NewMembershipStore(f.users)
	f.tasks = memorystore.NewTaskStore(f.memberships, f.users)
	f.svc = tasks.NewService(f.tasks, f.memberships, cache.NewMemory())

	f.adminA = f.addUser(t, ctx, "Alice", f.orgA, models.RoleAdmin)
	f.memberA = f.addUser(t, ctx, "Bob", f.orgA, models.RoleMember)
	f.otherA = f.addUser(t, ctx, "Carol", f.orgA, models.RoleMember)
	f.memberB = f.addUser(t, ctx, "Dave", f.orgB, models.RoleMember)

	return f
}

func (f *fixture) addUser(t *testing.T, ctx context.Context, name string, orgID uuid.UUID, role models.Role) uuid.UUID {
	t.Helper()

	userID := uuid.Must(uuid.NewV7())
	require.NoError(t, f.users.Create(ctx, &models.User{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))
	require.NoError(t, f.memberships.Create(ctx, &models.Membership{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		CreatedAt:      time.Now(),
	}))

	return userID
}

// session builds the caller context the way the HTTP middleware does:
// identity, current organization and every membership the user holds.
func (f *fixture) session(t *testing.T, userID, orgID uuid.UUID) *auth.Session {
	t.Helper()

	memberships, err := f.memberships.ListByUser(context.Background(), userID)
	require.NoError(t, err)

	session := &auth.Session{UserID: userID, OrganizationID: orgID}
	for _, m := range memberships {
		session.Memberships = append(session.Memberships, *m)
	}
	return session
}

func strptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates pending task", func(t *testing.T) {
		f := newFixture(t)

		task, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
			Title:        "Draft Report",
			AssignedToID: f.memberA,
		})
		require.NoError(t, err)
		require.Equal(t, models.TaskStatusPending, task.Status)
		require.Nil(t, task.SubmissionDetails)
		require.Nil(t, task.DueDate)
		require.Equal(t, f.memberA, task.AssignedToID)

		stored, err := f.tasks.Get(ctx, task.TaskID)
		require.NoError(t, err)
		require.Equal(t, "Draft Report", stored.Title)
	})

	t.Run("nil session is unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, nil, tasks.CreateInput{Title: "x", AssignedToID: f.memberA})
		require.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
			AssignedToID: f.memberA,
		})
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("member cannot create", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, f.session(t, f.memberA, f.orgA), tasks.CreateInput{
			Title:        "Draft Report",
			AssignedToID: f.otherA,
		})
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("assignee outside organization is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
			Title:        "Draft Report",
			AssignedToID: f.memberB,
		})
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *fixture, assignee uuid.UUID) *models.Task {
		t.Helper()
		task, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
			Title:        "Draft Report",
			AssignedToID: assignee,
		})
		require.NoError(t, err)
		return task
	}

	t.Run("assignee moves to in progress", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusInProgress, nil)
		require.NoError(t, err)
		require.Equal(t, models.TaskStatusInProgress, updated.Status)
		require.Nil(t, updated.SubmissionDetails)
	})

	t.Run("assignee completes with details", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusCompleted, strptr("done"))
		require.NoError(t, err)
		require.Equal(t, models.TaskStatusCompleted, updated.Status)
		require.NotNil(t, updated.SubmissionDetails)
		require.Equal(t, "done", *updated.SubmissionDetails)

		stored, err := f.tasks.Get(ctx, task.TaskID)
		require.NoError(t, err)
		require.NotNil(t, stored.SubmissionDetails)
		require.Equal(t, "done", *stored.SubmissionDetails)
	})

	t.Run("assignee completing without details is forbidden", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusCompleted, nil)
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))

		_, err = f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusReview, nil)
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("assignee cannot attach details to in progress", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusInProgress, strptr("notes"))
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("assignee cannot set pending or approved", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		for _, status := range []models.TaskStatus{models.TaskStatusPending, models.TaskStatusApproved} {
			_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, status, nil)
			require.True(t, apperr.IsKind(err, apperr.KindForbidden), "status %s", status)
		}
	})

	t.Run("non-assignee member is forbidden", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.otherA, f.orgA), task.TaskID, models.TaskStatusInProgress, nil)
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, "DONE", nil)
		require.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("missing task is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.adminA, f.orgA), uuid.Must(uuid.NewV7()), models.TaskStatusInProgress, nil)
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("task in another organization is not found, not forbidden", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		// Dave's session is scoped to org B; org A's task must not even
		// acknowledge its existence.
		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberB, f.orgB), task.TaskID, models.TaskStatusInProgress, nil)
		require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("admin approval clears stale details", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusCompleted, strptr("done"))
		require.NoError(t, err)

		// Admin moves COMPLETED -> APPROVED with no consistency check;
		// details are forced back to null.
		updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.adminA, f.orgA), task.TaskID, models.TaskStatusApproved, nil)
		require.NoError(t, err)
		require.Equal(t, models.TaskStatusApproved, updated.Status)
		require.Nil(t, updated.SubmissionDetails)

		stored, err := f.tasks.Get(ctx, task.TaskID)
		require.NoError(t, err)
		require.Nil(t, stored.SubmissionDetails)
	})

	t.Run("details forced null outside completed and review even when supplied", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		// Admins skip the consistency check entirely, so a supplied value
		// on an IN_PROGRESS transition is silently dropped.
		updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.adminA, f.orgA), task.TaskID, models.TaskStatusInProgress, strptr("stale"))
		require.NoError(t, err)
		require.Nil(t, updated.SubmissionDetails)
	})

	t.Run("admin may move backward", func(t *testing.T) {
		f := newFixture(t)
		task := create(t, f, f.memberA)

		_, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusCompleted, strptr("done"))
		require.NoError(t, err)

		updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.adminA, f.orgA), task.TaskID, models.TaskStatusInProgress, nil)
		require.NoError(t, err)
		require.Equal(t, models.TaskStatusInProgress, updated.Status)
	})
}

func TestAdminTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("member is forbidden", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AdminTasks(ctx, f.session(t, f.memberA, f.orgA))
		require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("scoped to the caller's organization", func(t *testing.T) {
		f := newFixture(t)
		adminB := f.addUser(t, ctx, "Erin", f.orgB, models.RoleAdmin)

		_, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
			Title:        "Org A task",
			AssignedToID: f.memberA,
		})
		require.NoError(t, err)

		taskB, err := f.svc.Create(ctx, f.session(t, adminB, f.orgB), tasks.CreateInput{
			Title:        "Org B task",
			AssignedToID: f.memberB,
		})
		require.NoError(t, err)

		listed, err := f.svc.AdminTasks(ctx, f.session(t, f.adminA, f.orgA))
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, "Org A task", listed[0].Title)
		require.Equal(t, "Bob", listed[0].Assignee.Name)
		require.NotEqual(t, taskB.TaskID, listed[0].TaskID)
	})

	t.Run("newest first", func(t *testing.T) {
		f := newFixture(t)

		for _, title := range []string{"first", "second", "third"} {
			_, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
				Title:        title,
				AssignedToID: f.memberA,
			})
			require.NoError(t, err)
			time.Sleep(time.Millisecond)
		}

		listed, err := f.svc.AdminTasks(ctx, f.session(t, f.adminA, f.orgA))
		require.NoError(t, err)
		require.Len(t, listed, 3)
		require.Equal(t, "third", listed[0].Title)
		require.Equal(t, "first", listed[2].Title)
	})
}

func TestOwnTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("due date ascending with missing due dates last", func(t *testing.T) {
		f := newFixture(t)
		adminSession := f.session(t, f.adminA, f.orgA)

		later := time.Now().Add(48 * time.Hour)
		sooner := time.Now().Add(24 * time.Hour)

		_, err := f.svc.Create(ctx, adminSession, tasks.CreateInput{
			Title: "no due date", AssignedToID: f.memberA,
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, adminSession, tasks.CreateInput{
			Title: "due later", AssignedToID: f.memberA, DueDate: &later,
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, adminSession, tasks.CreateInput{
			Title: "due sooner", AssignedToID: f.memberA, DueDate: &sooner,
		})
		require.NoError(t, err)

		listed, err := f.svc.OwnTasks(ctx, f.session(t, f.memberA, f.orgA))
		require.NoError(t, err)
		require.Len(t, listed, 3)
		require.Equal(t, "due sooner", listed[0].Title)
		require.Equal(t, "due later", listed[1].Title)
		require.Equal(t, "no due date", listed[2].Title)
	})

	t.Run("only own tasks", func(t *testing.T) {
		f := newFixture(t)
		adminSession := f.session(t, f.adminA, f.orgA)

		_, err := f.svc.Create(ctx, adminSession, tasks.CreateInput{Title: "for bob", AssignedToID: f.memberA})
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, adminSession, tasks.CreateInput{Title: "for carol", AssignedToID: f.otherA})
		require.NoError(t, err)

		listed, err := f.svc.OwnTasks(ctx, f.session(t, f.memberA, f.orgA))
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, "for bob", listed[0].Title)
	})
}

// Full workflow from the product brief: create, self-complete, reject a
// stranger, approve.
func TestTaskLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task, err := f.svc.Create(ctx, f.session(t, f.adminA, f.orgA), tasks.CreateInput{
		Title:        "Draft Report",
		AssignedToID: f.memberA,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Nil(t, task.SubmissionDetails)

	updated, err := f.svc.UpdateStatus(ctx, f.session(t, f.memberA, f.orgA), task.TaskID, models.TaskStatusCompleted, strptr("done"))
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.Equal(t, "done", *updated.SubmissionDetails)

	_, err = f.svc.UpdateStatus(ctx, f.session(t, f.otherA, f.orgA), task.TaskID, models.TaskStatusInProgress, nil)
	require.True(t, apperr.IsKind(err, apperr.KindForbidden))

	approved, err := f.svc.UpdateStatus(ctx, f.session(t, f.adminA, f.orgA), task.TaskID, models.TaskStatusApproved, nil)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusApproved, approved.Status)
	require.Nil(t, approved.SubmissionDetails)
}
