package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"confshare/internal/core/domain"
)

// Use a single instance of Validate, it caches struct info
var validate = validator.New()

// ==============================================================================
// 1. Request/Response Payloads
// ==============================================================================

type CreateConfigurationRequest struct {
	ID            string `json:"id" validate:"omitempty,max=1024"`
	Configuration string `json:"configuration" validate:"required"`
}

type KeyResponse struct {
	Key string `json:"key"`
}

// ==============================================================================
// 2. The Handler Struct (Dependency Injection)
// ==============================================================================

type ConfigurationHandler struct {
	Service domain.ConfigurationService
}

func NewConfigurationHandler(service domain.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{
		Service: service,
	}
}

// ==============================================================================
// 3. HTTP Methods
// ==============================================================================

// Create handles POST /api/v1/configurations
func (h *ConfigurationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "Invalid JSON payload"}`, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	key, err := h.Service.Store(r.Context(), req.ID, req.Configuration)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(KeyResponse{Key: key})
}

// Get handles GET /api/v1/configurations/{id}
// The response body is the decrypted, normalized JSON document itself.
func (h *ConfigurationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	normalized, err := h.Service.Fetch(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(normalized))
}

// List handles GET /api/v1/configurations
func (h *ConfigurationHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Service.FetchAll(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if configs == nil {
		configs = []domain.Configuration{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(configs)
}

// GetEncrypted handles GET /api/v1/configurations/{id}/encrypted
// Returns the stored container exactly as persisted.
func (h *ConfigurationHandler) GetEncrypted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cfg, err := h.Service.FetchEncrypted(r.Context(), id)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// ListEncrypted handles GET /api/v1/configurations/encrypted
func (h *ConfigurationHandler) ListEncrypted(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Service.FetchAllEncrypted(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if configs == nil {
		configs = []domain.Configuration{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(configs)
}

// Update handles PUT /api/v1/configurations/{id}
// The body is the normalized JSON document; it is denormalized and re-encrypted
// for storage, and echoed back on success.
func (h *ConfigurationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"message": "Failed to read request body"}`, http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, `{"message": "Missing configuration body"}`, http.StatusBadRequest)
		return
	}

	if err := h.Service.Update(r.Context(), id, string(body)); err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.Configuration{ID: id, Configuration: string(body)})
}

// Delete handles DELETE /api/v1/configurations/{id}
func (h *ConfigurationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
