package server

import (
	"net/http"

	"github.com/taskdesk/taskdesk/internal/members"
)

// MembersHandler exposes the assignable-member listing feeding the task
// creation flow.
type MembersHandler struct {
	service *members.Service
}

// NewMembersHandler creates the member HTTP handler.
func NewMembersHandler(service *members.Service) *MembersHandler {
	return &MembersHandler{service: service}
}

type memberResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// Assignable handles GET /api/members/assignable.
func (h *MembersHandler) Assignable(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.AssignableMembers(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]memberResponse, 0, len(listed))
	for _, m := range listed {
		resp = append(resp, memberResponse{
			ID:    m.UserID.String(),
			Name:  m.Name,
			Email: m.Email,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
