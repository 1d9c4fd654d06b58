package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Its-Zach/grandline/internal/config"
)

// DeviceHandler exposes the persisted device settings. The device name lives
// in the settings table so it survives restarts; db is only available on the
// sqlite engine.
type DeviceHandler struct {
	config *config.Config
	db     *sql.DB
}

// NewDeviceHandler creates a DeviceHandler. db may be nil, in which case
// changes live only in memory for the process lifetime.
func NewDeviceHandler(cfg *config.Config, db *sql.DB) *DeviceHandler {
	return &DeviceHandler{config: cfg, db: db}
}

// DeviceResponse is the response body for GET and PUT /device.
type DeviceResponse struct {
	DeviceName string `json:"device_name"`
}

// GetDevice handles GET /device.
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DeviceResponse{DeviceName: h.config.Device.DeviceName})
}

// PutDevice handles PUT /device - rename the sensor device.
func (h *DeviceHandler) PutDevice(w http.ResponseWriter, r *http.Request) {
	var req DeviceResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	name := strings.TrimSpace(req.DeviceName)
	if name == "" {
		respondError(w, http.StatusBadRequest, "device_name is required", nil)
		return
	}

	h.config.Device.DeviceName = name

	if h.db != nil {
		if err := h.config.SaveConfig(h.db); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to save device settings", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, DeviceResponse{DeviceName: name})
}
