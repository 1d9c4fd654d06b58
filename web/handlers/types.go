package handlers

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ReadingRequest is the request body for POST /addReading and
// PUT /updateReading/{id}. Sensor values arrive as raw JSON numbers and are
// validated as finite before any store call; identifier fields must be
// integers.
type ReadingRequest struct {
	Ultrasonic  *float64 `json:"ultrasonic_value"`
	Lidar       *float64 `json:"lidar_value"`
	IslandID    *int64   `json:"island_id"`
	CharacterID *int64   `json:"character_id"`
}

// AddReadingResponse is the response body for POST /addReading.
type AddReadingResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// AffectedResponse reports how many rows a mutation touched.
type AffectedResponse struct {
	Affected int64  `json:"affected"`
	Message  string `json:"message"`
}

// StatsResponse is the response body for GET /stats.
type StatsResponse struct {
	Readings      int    `json:"readings"`
	LatestAt      string `json:"latest_at,omitempty"`
	StorageEngine string `json:"storage_engine"`
	DeviceName    string `json:"device_name,omitempty"`
}
