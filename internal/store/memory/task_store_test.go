package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

type taskFixture struct {
	users       *UserStore
	memberships *MembershipStore
	tasks       *TaskStore

	orgA uuid.UUID
	orgB uuid.UUID

	bob  uuid.UUID // MEMBER of org A
	dave uuid.UUID // MEMBER of org B
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	f := &taskFixture{
		users: NewUserStore(),
		orgA:  uuid.Must(uuid.NewV7()),
		orgB:  uuid.Must(uuid.NewV7()),
	}
	f.memberships = NewMembershipStore(f.users)
	f.tasks = NewTaskStore(f.memberships, f.users)

	f.bob = seedMember(t, f.users, f.memberships, "Bob", f.orgA, models.RoleMember)
	f.dave = seedMember(t, f.users, f.memberships, "Dave", f.orgB, models.RoleMember)

	return f
}

func (f *taskFixture) createTask(t *testing.T, title string, assignee uuid.UUID, dueDate *time.Time, createdAt time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		TaskID:       uuid.Must(uuid.NewV7()),
		Title:        title,
		Status:       models.TaskStatusPending,
		AssignedToID: assignee,
		DueDate:      dueDate,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestTaskStore_GetInOrganization(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	task := f.createTask(t, "report", f.bob, nil, time.Now())

	t.Run("visible in own organization", func(t *testing.T) {
		got, err := f.tasks.GetInOrganization(ctx, task.TaskID, f.orgA)
		require.NoError(t, err)
		require.Equal(t, task.TaskID, got.TaskID)
	})

	t.Run("hidden from other organization", func(t *testing.T) {
		_, err := f.tasks.GetInOrganization(ctx, task.TaskID, f.orgB)
		require.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := f.tasks.GetInOrganization(ctx, uuid.Must(uuid.NewV7()), f.orgA)
		require.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStore_Update(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	task := f.createTask(t, "report", f.bob, nil, time.Now())

	task.Status = models.TaskStatusInProgress
	require.NoError(t, f.tasks.Update(ctx, task))

	got, err := f.tasks.Get(ctx, task.TaskID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, got.Status)

	missing := &models.Task{TaskID: uuid.Must(uuid.NewV7())}
	require.ErrorIs(t, f.tasks.Update(ctx, missing), store.ErrTaskNotFound)
}

func TestTaskStore_ListByOrganization(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	now := time.Now()
	f.createTask(t, "older", f.bob, nil, now.Add(-time.Hour))
	f.createTask(t, "newer", f.bob, nil, now)
	f.createTask(t, "other org", f.dave, nil, now)

	listed, err := f.tasks.ListByOrganization(ctx, f.orgA)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "newer", listed[0].Title)
	require.Equal(t, "older", listed[1].Title)
	require.Equal(t, "Bob", listed[0].Assignee.Name)
}

func TestTaskStore_ListByAssignee_DueDateOrdering(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	now := time.Now()
	sooner := now.Add(24 * time.Hour)
	later := now.Add(48 * time.Hour)

	f.createTask(t, "no due date", f.bob, nil, now)
	f.createTask(t, "due later", f.bob, &later, now)
	f.createTask(t, "due sooner", f.bob, &sooner, now)
	f.createTask(t, "someone else", f.dave, &sooner, now)

	listed, err := f.tasks.ListByAssignee(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "due sooner", listed[0].Title)
	require.Equal(t, "due later", listed[1].Title)
	require.Equal(t, "no due date", listed[2].Title)
}

func TestTaskStore_CloneOnRead(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	task := f.createTask(t, "report", f.bob, nil, time.Now())

	got, err := f.tasks.Get(ctx, task.TaskID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := f.tasks.Get(ctx, task.TaskID)
	require.NoError(t, err)
	require.Equal(t, "report", again.Title)
}
