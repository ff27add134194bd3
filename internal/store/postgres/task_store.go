package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

// TaskStore implements store.TaskStore using PostgreSQL. The membership
// join deriving a task's organization from its assignee lives entirely in
// this file; callers never perform it themselves.
type TaskStore struct {
	pool *pgxpool.Pool
}

// NewTaskStore creates a new PostgreSQL-backed task store.
func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{
		pool: pool,
	}
}

const taskColumns = `
	task_id, title, description, status, assigned_to_id,
	due_date, submission_details, created_at, updated_at
`

// Create inserts a new task in the database.
func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		task.TaskID,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedToID,
		task.DueDate,
		task.SubmissionDetails,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTaskAlreadyExists
		}
		return fmt.Errorf("failed to create task: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("task_id", task.TaskID.String()).
		Str("assigned_to_id", task.AssignedToID.String()).
		Msg("Created task")

	return nil
}

// Get retrieves a task by ID with no tenant scoping.
func (s *TaskStore) Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = $1
	`

	return scanTask(s.pool.QueryRow(ctx, query, taskID))
}

// GetInOrganization retrieves a task only if its assignee is a member of
// the organization. Cross-tenant tasks surface as ErrTaskNotFound.
func (s *TaskStore) GetInOrganization(ctx context.Context, taskID, orgID uuid.UUID) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.task_id = $1
		  AND EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = t.assigned_to_id AND m.org_id = $2
		  )
	`

	return scanTask(s.pool.QueryRow(ctx, query, taskID, orgID))
}

// Update persists the mutable fields of an existing task.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	query := `
		UPDATE tasks SET
			title = $2,
			description = $3,
			status = $4,
			due_date = $5,
			submission_details = $6,
			updated_at = $7
		WHERE task_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		task.TaskID,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.SubmissionDetails,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrTaskNotFound
	}

	log.Debug().
		Str("task_id", task.TaskID.String()).
		Str("status", string(task.Status)).
		Msg("Updated task")

	return nil
}

// ListByOrganization returns tasks whose assignee is a member of the
// organization, joined with the assignee projection, newest first.
func (s *TaskStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.TaskWithAssignee, error) {
	query := `
		SELECT
			t.task_id, t.title, t.description, t.status, t.assigned_to_id,
			t.due_date, t.submission_details, t.created_at, t.updated_at,
			u.name, u.email, u.image
		FROM tasks t
		JOIN users u ON u.user_id = t.assigned_to_id
		WHERE EXISTS (
			SELECT 1 FROM memberships m
			WHERE m.user_id = t.assigned_to_id AND m.org_id = $1
		)
		ORDER BY t.created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization tasks: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var tasks []*models.TaskWithAssignee
	for rows.Next() {
		var t models.TaskWithAssignee
		err := rows.Scan(
			&t.TaskID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.AssignedToID,
			&t.DueDate,
			&t.SubmissionDetails,
			&t.CreatedAt,
			&t.UpdatedAt,
			&t.Assignee.Name,
			&t.Assignee.Email,
			&t.Assignee.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Assignee.UserID = t.AssignedToID
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// ListByAssignee returns the user's tasks ordered by due date ascending.
// NULLS LAST is stated explicitly rather than relying on the default
// ordering for ASC.
func (s *TaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE assigned_to_id = $1
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		if err := scanTaskFields(rows, &task); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	if err := scanTaskFields(row, &task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", mapPostgresError(err))
	}
	return &task, nil
}

func scanTaskFields(row pgx.Row, task *models.Task) error {
	return row.Scan(
		&task.TaskID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.AssignedToID,
		&task.DueDate,
		&task.SubmissionDetails,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}
