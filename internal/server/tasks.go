package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/tasks"
)

// TasksHandler exposes the task lifecycle operations over HTTP. It adds no
// semantics of its own: decode, call the service, map the error kind.
type TasksHandler struct {
	service *tasks.Service
}

// NewTasksHandler creates the task HTTP handler.
func NewTasksHandler(service *tasks.Service) *TasksHandler {
	return &TasksHandler{service: service}
}

type taskResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	Status            string     `json:"status"`
	AssignedToID      string     `json:"assignedToId"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	SubmissionDetails *string    `json:"submissionDetails,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type assigneeResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

type taskWithAssigneeResponse struct {
	taskResponse
	Assignee assigneeResponse `json:"assignee"`
}

func toTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:                task.TaskID.String(),
		Title:             task.Title,
		Description:       task.Description,
		Status:            string(task.Status),
		AssignedToID:      task.AssignedToID.String(),
		DueDate:           task.DueDate,
		SubmissionDetails: task.SubmissionDetails,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	AssignedToID string     `json:"assignedToId"`
	DueDate      *time.Time `json:"dueDate"`
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	assignedToID, err := uuid.Parse(req.AssignedToID)
	if err != nil {
		writeError(w, apperr.Validation("invalid assignedToId format"))
		return
	}

	task, err := h.service.Create(r.Context(), sessionFrom(r), tasks.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: assignedToID,
		DueDate:      req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

type updateStatusRequest struct {
	Status            string  `json:"status"`
	SubmissionDetails *string `json:"submissionDetails"`
}

// UpdateStatus handles PATCH /api/tasks/{taskID}/status.
func (h *TasksHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid task ID format"))
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), sessionFrom(r), taskID,
		models.TaskStatus(req.Status), req.SubmissionDetails)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// AdminList handles GET /api/tasks: every task in the caller's
// organization, joined with the assignee. Admin only.
func (h *TasksHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.AdminTasks(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]taskWithAssigneeResponse, 0, len(listed))
	for _, t := range listed {
		resp = append(resp, taskWithAssigneeResponse{
			taskResponse: toTaskResponse(&t.Task),
			Assignee: assigneeResponse{
				ID:    t.Assignee.UserID.String(),
				Name:  t.Assignee.Name,
				Image: t.Assignee.Image,
			},
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// OwnList handles GET /api/tasks/mine: the caller's assigned tasks.
func (h *TasksHandler) OwnList(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.OwnTasks(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(listed))
	for _, t := range listed {
		resp = append(resp, toTaskResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}
