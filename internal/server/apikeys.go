package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/apikeys"
	"github.com/taskdesk/taskdesk/internal/apperr"
)

// APIKeysHandler exposes organization API key management.
type APIKeysHandler struct {
	service *apikeys.Service
}

// NewAPIKeysHandler creates the API key HTTP handler.
func NewAPIKeysHandler(service *apikeys.Service) *APIKeysHandler {
	return &APIKeysHandler{service: service}
}

type apiKeyResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type createKeyRequest struct {
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type createKeyResponse struct {
	apiKeyResponse
	// Secret is returned exactly once; only its hash is stored.
	Secret string `json:"secret"`
}

// Create handles POST /api/keys.
func (h *APIKeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), sessionFrom(r), req.Description, req.ExpiresAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createKeyResponse{
		apiKeyResponse: apiKeyResponse{
			ID:          created.Key.APIKeyID.String(),
			Description: created.Key.Description,
			ExpiresAt:   created.Key.ExpiresAt,
			CreatedAt:   created.Key.CreatedAt,
		},
		Secret: created.Secret,
	})
}

// List handles GET /api/keys.
func (h *APIKeysHandler) List(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.List(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]apiKeyResponse, 0, len(listed))
	for _, k := range listed {
		resp = append(resp, apiKeyResponse{
			ID:          k.APIKeyID.String(),
			Description: k.Description,
			LastUsedAt:  k.LastUsedAt,
			ExpiresAt:   k.ExpiresAt,
			CreatedAt:   k.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/keys/{keyID}.
func (h *APIKeysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
	if err != nil {
		writeError(w, apperr.Validation("invalid key ID format"))
		return
	}

	if err := h.service.Delete(r.Context(), sessionFrom(r), keyID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
