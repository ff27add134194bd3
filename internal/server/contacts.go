package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/apperr"
	"github.com/taskdesk/taskdesk/internal/contacts"
	"github.com/taskdesk/taskdesk/internal/models"
)

// ContactsHandler exposes contact records and their timelines.
type ContactsHandler struct {
	service *contacts.Service
}

// NewContactsHandler creates the contact HTTP handler.
func NewContactsHandler(service *contacts.Service) *ContactsHandler {
	return &ContactsHandler{service: service}
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toContactResponse(contact *models.Contact) contactResponse {
	return contactResponse{
		ID:        contact.ContactID.String(),
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Stage:     string(contact.Stage),
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}

type createContactRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Stage string  `json:"stage"`
}

// Create handles POST /api/contacts.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	contact, err := h.service.Create(r.Context(), sessionFrom(r), contacts.CreateInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Stage: models.ContactStage(req.Stage),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toContactResponse(contact))
}

// List handles GET /api/contacts with an optional ?stage= filter.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	stage := models.ContactStage(r.URL.Query().Get("stage"))

	listed, err := h.service.List(r.Context(), sessionFrom(r), stage)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]contactResponse, 0, len(listed))
	for _, c := range listed {
		resp = append(resp, toContactResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/contacts/{contactID}.
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid contact ID format"))
		return
	}

	contact, err := h.service.Get(r.Context(), sessionFrom(r), contactID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContactResponse(contact))
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

// UpdateStage handles PATCH /api/contacts/{contactID}/stage.
func (h *ContactsHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid contact ID format"))
		return
	}

	var req updateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	contact, err := h.service.UpdateStage(r.Context(), sessionFrom(r), contactID,
		models.ContactStage(req.Stage))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContactResponse(contact))
}

type addNoteRequest struct {
	Note string `json:"note"`
}

type timelineEventResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	Kind       string    `json:"kind"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AddNote handles POST /api/contacts/{contactID}/notes.
func (h *ContactsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid contact ID format"))
		return
	}

	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.service.AddNote(r.Context(), sessionFrom(r), contactID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, timelineEventResponse{
		ID:         event.EventID.String(),
		ActorID:    event.ActorID.String(),
		Kind:       event.Kind,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	})
}

// Timeline handles GET /api/contacts/{contactID}/timeline.
func (h *ContactsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid contact ID format"))
		return
	}

	events, err := h.service.Timeline(r.Context(), sessionFrom(r), contactID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]timelineEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, timelineEventResponse{
			ID:         e.EventID.String(),
			ActorID:    e.ActorID.String(),
			Kind:       e.Kind,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
