// Package storage provides the storage contract for the Grand Line sensor
// backend along with backend-agnostic helpers (reference-data seeding and a
// circuit-breaking decorator). Concrete implementations live in the sqlite
// and postgres subpackages.
package storage

import (
	"context"

	"github.com/Its-Zach/grandline/pkg/types"
)

// ReadingStore is the persistence collaborator consumed by both the REST
// surface and the voice core. Every method is a single autonomous statement;
// no transaction spans multiple calls.
type ReadingStore interface {
	// InsertReading persists a new reading and returns the assigned ID.
	InsertReading(ctx context.Context, reading *types.Reading) (int64, error)

	// GetReading retrieves a reading by ID, joined with island and
	// character names. Returns ErrNotFound if no such reading exists.
	GetReading(ctx context.Context, id int64) (*types.Reading, error)

	// GetLatestReading retrieves the reading with the maximum ID, joined
	// with island and character names. Returns ErrNotFound when the
	// reading set is empty.
	GetLatestReading(ctx context.Context) (*types.Reading, error)

	// ListReadings retrieves readings with pagination and sorting.
	ListReadings(ctx context.Context, opts ListOptions) (*PaginatedResult[types.Reading], error)

	// UpdateReading replaces the island and character references of the
	// reading with the given ID. Returns the number of affected rows.
	UpdateReading(ctx context.Context, id, islandID, characterID int64) (int64, error)

	// DeleteReading removes the reading with the given ID. Returns the
	// number of affected rows.
	DeleteReading(ctx context.Context, id int64) (int64, error)

	// CountReadings returns the total number of stored readings.
	CountReadings(ctx context.Context) (int, error)

	// ListIslands returns the island reference list in stable ID order.
	ListIslands(ctx context.Context) ([]types.NamedEntity, error)

	// ListCharacters returns the character reference list in stable ID order.
	ListCharacters(ctx context.Context) ([]types.NamedEntity, error)

	// Close releases any resources held by the store.
	Close() error
}
