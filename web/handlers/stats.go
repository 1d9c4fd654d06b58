package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Its-Zach/grandline/internal/config"
	"github.com/Its-Zach/grandline/internal/storage"
)

// StatsHandler reports operational statistics about the reading log.
type StatsHandler struct {
	store  storage.ReadingStore
	config *config.Config
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(store storage.ReadingStore, cfg *config.Config) *StatsHandler {
	return &StatsHandler{store: store, config: cfg}
}

// GetStats handles GET /stats - reading count, latest reading time, and the
// active storage engine.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.store.CountReadings(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count readings", err)
		return
	}

	resp := StatsResponse{
		Readings:      count,
		StorageEngine: h.config.Storage.StorageEngine,
		DeviceName:    h.config.Device.DeviceName,
	}

	latest, err := h.store.GetLatestReading(ctx)
	switch {
	case err == nil:
		resp.LatestAt = latest.CreatedAt.Format(time.RFC3339)
	case errors.Is(err, storage.ErrNotFound):
		// Empty log; LatestAt stays unset
	default:
		respondError(w, http.StatusInternalServerError, "failed to fetch latest reading", err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
