package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// TaskStore implements store.TaskStore using in-memory storage. The
// membership store stands in for the SQL join that derives a task's
// organization from its assignee.
type TaskStore struct {
	mu sync.RWMutex

	tasks       map[uuid.UUID]*models.Task // task_id -> Task
	memberships *MembershipStore
	users       *UserStore
}

// NewTaskStore creates a new in-memory task store.
func NewTaskStore(memberships *MembershipStore, users *UserStore) *TaskStore {
	return &TaskStore{
		tasks:       make(map[uuid.UUID]*models.Task),
		memberships: memberships,
		users:       users,
	}
}

// Create inserts a new task in memory.
func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; exists {
		return store.ErrTaskAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *task
	s.tasks[task.TaskID] = &clone

	return nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	clone := *task
	return &clone, nil
}

// GetInOrganization retrieves a task only if its assignee is a member of the
// organization. Cross-tenant tasks surface as ErrTaskNotFound.
func (s *TaskStore) GetInOrganization(ctx context.Context, taskID, orgID uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	task, exists := s.tasks[taskID]
	if !exists {
		s.mu.RUnlock()
		return nil, store.ErrTaskNotFound
	}
	clone := *task
	s.mu.RUnlock()

	if !s.memberships.isMember(orgID, clone.AssignedToID) {
		return nil, store.ErrTaskNotFound
	}

	return &clone, nil
}

// Update persists the mutable fields of an existing task.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; !exists {
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = time.Now()

	clone := *task
	s.tasks[task.TaskID] = &clone

	return nil
}

// ListByOrganization returns tasks whose assignee is a member of the
// organization, joined with the assignee projection, newest first.
func (s *TaskStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	s.mu.RLock()
	var tasks []models.Task
	for _, task := range s.tasks {
		tasks = append(tasks, *task)
	}
	s.mu.RUnlock()

	var result []*models.TaskWithAssignee
	for _, task := range tasks {
		if !s.memberships.isMember(orgID, task.AssignedToID) {
			continue
		}

		assignee := models.MemberInfo{UserID: task.AssignedToID}
		if user, exists := s.users.get(task.AssignedToID); exists {
			assignee.Name = user.Name
			assignee.Email = user.Email
			assignee.Image = user.Image
		}

		result = append(result, &models.TaskWithAssignee{
			Task:     task,
			Assignee: assignee,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// ListByAssignee returns the user's tasks ordered by due date ascending,
// tasks without a due date last.
func (s *TaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Task
	for _, task := range s.tasks {
		if task.AssignedToID != userID {
			continue
		}
		clone := *task
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].DueDate, result[j].DueDate
		switch {
		case a == nil && b == nil:
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return result, nil
}
