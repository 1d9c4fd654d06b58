// Package sqlite provides a SQLite implementation of the storage contract
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/pkg/types"
)

// ReadingStore implements storage.ReadingStore using SQLite.
type ReadingStore struct {
	db *sql.DB
}

// NewReadingStore opens a SQLite database, configures WAL mode, and applies
// the embedded schema. The dsn is a file path or ":memory:".
func NewReadingStore(dsn string) (*ReadingStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open
	// connection serialises writes and avoids SQLITE_BUSY errors under
	// concurrent load. WAL mode allows readers to proceed without blocking
	// the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // Connections live for the lifetime of the store.

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}

	// Wait instead of returning an immediate SQLITE_BUSY error when the
	// connection is held by another goroutine.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &ReadingStore{db: db}, nil
}

// GetDB returns the underlying database connection. This is used for direct
// operations like config persistence in the settings table.
func (s *ReadingStore) GetDB() *sql.DB {
	return s.db
}

// readingColumns is the SELECT list shared by every reading query, joined
// with the reference tables for display names.
const readingColumns = `
	r.id, r.ultrasonic_value, r.lidar_value,
	r.island_id, r.character_id,
	i.name, c.name,
	r.created_at
`

const readingJoins = `
	FROM readings r
	JOIN islands    i ON i.id = r.island_id
	JOIN characters c ON c.id = r.character_id
`

// InsertReading persists a new reading and returns the assigned ID.
func (s *ReadingStore) InsertReading(ctx context.Context, reading *types.Reading) (int64, error) {
	if reading == nil {
		return 0, storage.ErrInvalidInput
	}
	if err := reading.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO readings (ultrasonic_value, lidar_value, island_id, character_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, reading.Ultrasonic, reading.Lidar, reading.IslandID, reading.CharacterID, reading.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to get inserted ID: %w", err)
	}

	reading.ID = id
	return id, nil
}

// GetReading retrieves a reading by ID joined with its reference names.
func (s *ReadingStore) GetReading(ctx context.Context, id int64) (*types.Reading, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+readingColumns+readingJoins+"WHERE r.id = ?", id)
	return scanReading(row)
}

// GetLatestReading retrieves the reading with the maximum ID. The maximum
// identifier is the sole ordering rule for "latest".
func (s *ReadingStore) GetLatestReading(ctx context.Context) (*types.Reading, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+readingColumns+readingJoins+"ORDER BY r.id DESC LIMIT 1")
	return scanReading(row)
}

// ListReadings retrieves readings with pagination and sorting.
func (s *ReadingStore) ListReadings(ctx context.Context, opts storage.ListOptions) (*storage.PaginatedResult[types.Reading], error) {
	opts.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: failed to count readings: %w", err)
	}

	// SortBy and SortOrder are whitelisted by Normalize, safe to interpolate.
	query := fmt.Sprintf("SELECT%s%sORDER BY r.%s %s LIMIT ? OFFSET ?",
		readingColumns, readingJoins, opts.SortBy, opts.SortOrder)

	rows, err := s.db.QueryContext(ctx, query, opts.Limit, opts.Offset())
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list readings: %w", err)
	}
	defer rows.Close()

	items := make([]types.Reading, 0, opts.Limit)
	for rows.Next() {
		var r types.Reading
		if err := rows.Scan(&r.ID, &r.Ultrasonic, &r.Lidar, &r.IslandID, &r.CharacterID,
			&r.IslandName, &r.CharacterName, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan reading: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate readings: %w", err)
	}

	return &storage.PaginatedResult[types.Reading]{
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.Limit,
		HasMore:  opts.Offset()+len(items) < total,
	}, nil
}

// UpdateReading replaces the island and character references of a reading.
func (s *ReadingStore) UpdateReading(ctx context.Context, id, islandID, characterID int64) (int64, error) {
	if islandID <= 0 || characterID <= 0 {
		return 0, fmt.Errorf("%w: island and character IDs must be positive", storage.ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE readings SET island_id = ?, character_id = ? WHERE id = ?
	`, islandID, characterID, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to update reading: %w", err)
	}

	return rowsAffected(result, "update")
}

// DeleteReading removes a reading by ID.
func (s *ReadingStore) DeleteReading(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM readings WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to delete reading: %w", err)
	}

	return rowsAffected(result, "delete")
}

// CountReadings returns the total number of stored readings.
func (s *ReadingStore) CountReadings(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: failed to count readings: %w", err)
	}
	return count, nil
}

// ListIslands returns the island reference list in ID order.
func (s *ReadingStore) ListIslands(ctx context.Context) ([]types.NamedEntity, error) {
	return s.listEntities(ctx, "islands")
}

// ListCharacters returns the character reference list in ID order.
func (s *ReadingStore) ListCharacters(ctx context.Context) ([]types.NamedEntity, error) {
	return s.listEntities(ctx, "characters")
}

// SeedReference inserts reference rows that are not already present.
func (s *ReadingStore) SeedReference(ctx context.Context, islands, characters []types.NamedEntity) error {
	for _, e := range islands {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO islands (id, name) VALUES (?, ?)", e.ID, e.Name); err != nil {
			return fmt.Errorf("sqlite: failed to seed island %q: %w", e.Name, err)
		}
	}
	for _, e := range characters {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO characters (id, name) VALUES (?, ?)", e.ID, e.Name); err != nil {
			return fmt.Errorf("sqlite: failed to seed character %q: %w", e.Name, err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *ReadingStore) Close() error {
	return s.db.Close()
}

func (s *ReadingStore) listEntities(ctx context.Context, table string) ([]types.NamedEntity, error) {
	// table is always a compile-time constant ("islands" or "characters").
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var entities []types.NamedEntity
	for rows.Next() {
		var e types.NamedEntity
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan %s row: %w", table, err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate %s: %w", table, err)
	}

	return entities, nil
}

func scanReading(row *sql.Row) (*types.Reading, error) {
	var r types.Reading
	err := row.Scan(&r.ID, &r.Ultrasonic, &r.Lidar, &r.IslandID, &r.CharacterID,
		&r.IslandName, &r.CharacterName, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to scan reading: %w", err)
	}
	return &r, nil
}

func rowsAffected(result sql.Result, op string) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to get rows affected for %s: %w", op, err)
	}
	return n, nil
}
