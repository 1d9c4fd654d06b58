package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/Its-Zach/grandline/internal/config"
	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/pkg/types"
)

// ReadingHandlers contains HTTP handlers for the REST API.
type ReadingHandlers struct {
	store  storage.ReadingStore
	config *config.Config
	hub    *WebSocketHub // Optional; new readings are broadcast when set
}

// NewReadingHandlers creates a new ReadingHandlers instance.
func NewReadingHandlers(store storage.ReadingStore, cfg *config.Config) *ReadingHandlers {
	return &ReadingHandlers{
		store:  store,
		config: cfg,
	}
}

// SetHub attaches a WebSocket hub so stored readings reach live dashboards.
func (h *ReadingHandlers) SetHub(hub *WebSocketHub) {
	h.hub = hub
}

// AddReading handles POST /addReading - store a new sensor reading.
// All numeric fields are validated before any store call is made.
func (h *ReadingHandlers) AddReading(w http.ResponseWriter, r *http.Request) {
	var req ReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Ultrasonic == nil || req.Lidar == nil {
		respondError(w, http.StatusBadRequest, "ultrasonic_value and lidar_value are required", nil)
		return
	}
	if req.IslandID == nil || req.CharacterID == nil {
		respondError(w, http.StatusBadRequest, "island_id and character_id are required", nil)
		return
	}

	reading := types.Reading{
		Ultrasonic:  *req.Ultrasonic,
		Lidar:       *req.Lidar,
		IslandID:    *req.IslandID,
		CharacterID: *req.CharacterID,
	}
	if err := reading.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid reading", err)
		return
	}

	id, err := h.store.InsertReading(r.Context(), &reading)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "unknown island or character reference", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to store reading", err)
		return
	}

	if h.hub != nil {
		stored, err := h.store.GetReading(r.Context(), id)
		if err != nil {
			log.Printf("api: failed to load stored reading %d for broadcast: %v", id, err)
		} else {
			h.hub.Broadcast(stored)
		}
	}

	respondJSON(w, http.StatusCreated, AddReadingResponse{
		ID:      id,
		Message: "reading stored",
	})
}

// ListReadings handles GET /readings - list readings with pagination.
func (h *ReadingHandlers) ListReadings(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{
		Page:      parseInt(r.URL.Query().Get("page"), 1),
		Limit:     parseInt(r.URL.Query().Get("limit"), 25),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	opts.Normalize()

	result, err := h.store.ListReadings(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list readings", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLatestReading handles GET /latestReading - return the reading with the
// highest ID.
func (h *ReadingHandlers) GetLatestReading(w http.ResponseWriter, r *http.Request) {
	reading, err := h.store.GetLatestReading(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no readings stored yet", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to fetch latest reading", err)
		return
	}

	respondJSON(w, http.StatusOK, reading)
}

// UpdateReading handles PUT /updateReading/{id} - re-tag a reading with new
// island and character references.
func (h *ReadingHandlers) UpdateReading(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading ID must be an integer", err)
		return
	}

	var req ReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.IslandID == nil || req.CharacterID == nil {
		respondError(w, http.StatusBadRequest, "island_id and character_id are required", nil)
		return
	}
	if *req.IslandID <= 0 || *req.CharacterID <= 0 {
		respondError(w, http.StatusBadRequest, "island_id and character_id must be positive integers", nil)
		return
	}

	affected, err := h.store.UpdateReading(r.Context(), id, *req.IslandID, *req.CharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "unknown island or character reference", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update reading", err)
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "reading not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, AffectedResponse{
		Affected: affected,
		Message:  fmt.Sprintf("reading %d updated", id),
	})
}

// DeleteReading handles DELETE /deleteReading/{id}.
func (h *ReadingHandlers) DeleteReading(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading ID must be an integer", err)
		return
	}

	affected, err := h.store.DeleteReading(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete reading", err)
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "reading not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, AffectedResponse{
		Affected: affected,
		Message:  fmt.Sprintf("reading %d deleted", id),
	})
}

// ListIslands handles GET /islands - return the island reference list.
func (h *ReadingHandlers) ListIslands(w http.ResponseWriter, r *http.Request) {
	islands, err := h.store.ListIslands(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list islands", err)
		return
	}
	respondJSON(w, http.StatusOK, islands)
}

// ListCharacters handles GET /characters - return the character reference list.
func (h *ReadingHandlers) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.store.ListCharacters(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list characters", err)
		return
	}
	respondJSON(w, http.StatusOK, characters)
}

// Helper functions

// extractID parses an integer path parameter from the request.
func extractID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)
	if raw == "" {
		return 0, errors.New("missing path parameter")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// parseInt parses an integer from a string, returning defaultValue if parsing fails.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, so only log
		log.Printf("api: failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
