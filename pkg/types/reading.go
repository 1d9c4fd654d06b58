// Package types defines the core data structures for the Grand Line sensor
// backend: distance readings and the named reference entities (islands and
// characters) they are tagged with.
package types

import (
	"fmt"
	"math"
	"time"
)

// Reading represents a single persisted sensor sample. Each reading carries
// two distance measurements (ultrasonic and lidar, in centimeters) and
// references exactly one island and one character.
//
// The store assigns IDs monotonically; the reading with the maximum ID is
// the "latest" reading and is the implicit subject of voice mutation
// commands.
type Reading struct {
	ID          int64   `json:"id"`
	Ultrasonic  float64 `json:"ultrasonic_value"` // Ultrasonic sensor distance (cm)
	Lidar       float64 `json:"lidar_value"`      // Ranging (lidar) sensor distance (cm)
	IslandID    int64   `json:"island_id"`
	CharacterID int64   `json:"character_id"`

	// Denormalized names, populated when the reading is fetched joined
	// with its reference rows. Empty on insert.
	IslandName    string `json:"island_name,omitempty"`
	CharacterName string `json:"character_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the reading's sensor values are finite and its
// reference IDs are positive. It does not verify that the referenced rows
// exist; the store's foreign key constraints own that invariant.
func (r *Reading) Validate() error {
	if !IsFinite(r.Ultrasonic) {
		return fmt.Errorf("ultrasonic_value must be a finite number, got %v", r.Ultrasonic)
	}
	if !IsFinite(r.Lidar) {
		return fmt.Errorf("lidar_value must be a finite number, got %v", r.Lidar)
	}
	if r.IslandID <= 0 {
		return fmt.Errorf("island_id must be a positive integer, got %d", r.IslandID)
	}
	if r.CharacterID <= 0 {
		return fmt.Errorf("character_id must be a positive integer, got %d", r.CharacterID)
	}
	return nil
}

// IsFinite reports whether v is a usable sensor value (not NaN or ±Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
