package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-Zach/grandline/internal/config"
	"github.com/Its-Zach/grandline/internal/storage/sqlite"
)

func TestDeviceRoundTripInMemory(t *testing.T) {
	cfg := testConfig()
	h := NewDeviceHandler(cfg, nil)

	rec := httptest.NewRecorder()
	h.PutDevice(rec, httptest.NewRequest(http.MethodPut, "/device",
		bytes.NewBufferString(`{"device_name": "going merry"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "going merry", cfg.Device.DeviceName)

	rec = httptest.NewRecorder()
	h.GetDevice(rec, httptest.NewRequest(http.MethodGet, "/device", nil))

	var resp DeviceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "going merry", resp.DeviceName)
}

func TestPutDeviceRejectsBlankName(t *testing.T) {
	h := NewDeviceHandler(testConfig(), nil)

	rec := httptest.NewRecorder()
	h.PutDevice(rec, httptest.NewRequest(http.MethodPut, "/device",
		bytes.NewBufferString(`{"device_name": "   "}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutDevicePersistsToSettings(t *testing.T) {
	store, err := sqlite.NewReadingStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	h := NewDeviceHandler(cfg, store.GetDB())

	rec := httptest.NewRecorder()
	h.PutDevice(rec, httptest.NewRequest(http.MethodPut, "/device",
		bytes.NewBufferString(`{"device_name": "thousand sunny"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	// A fresh config load sees the persisted value
	reloaded, err := config.LoadConfigFromDB(store.GetDB())
	require.NoError(t, err)
	assert.Equal(t, "thousand sunny", reloaded.Device.DeviceName)
}
