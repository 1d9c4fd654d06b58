package storage

import "errors"

var (
	// ErrNotFound indicates that the requested resource was not found.
	// GetLatestReading returns it when the reading set is empty.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates the store is temporarily unreachable
	// (circuit open, timeout, connectivity loss). Callers surface it to
	// end users as a generic apology; the detail stays in operator logs.
	ErrUnavailable = errors.New("storage unavailable")
)

// PaginatedResult represents a paginated result set.
type PaginatedResult[T any] struct {
	// Items is the slice of results for the current page.
	Items []T `json:"items"`

	// Total is the total number of items across all pages.
	Total int `json:"total"`

	// Page is the current page number (1-indexed).
	Page int `json:"page"`

	// PageSize is the number of items per page.
	PageSize int `json:"page_size"`

	// HasMore indicates whether there are more pages available.
	HasMore bool `json:"has_more"`
}

// ListOptions provides pagination and sorting options for ListReadings.
type ListOptions struct {
	// Page is the page number to retrieve (1-indexed, default: 1).
	Page int

	// Limit is the number of items per page (default: 25, max: 500).
	Limit int

	// SortBy specifies the field to sort by ("id" or "created_at").
	SortBy string

	// SortOrder specifies the sort direction ("asc" or "desc", default: "desc").
	SortOrder string
}

// Normalize applies defaults and validates the ListOptions.
func (o *ListOptions) Normalize() {
	// Whitelist validation for SortBy to prevent SQL injection
	allowedSortFields := map[string]bool{
		"id":         true,
		"created_at": true,
	}

	if !allowedSortFields[o.SortBy] {
		o.SortBy = "id"
	}

	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		o.SortOrder = "desc"
	}

	if o.Page < 1 {
		o.Page = 1
	}

	if o.Limit < 1 {
		o.Limit = 25
	}

	if o.Limit > 500 {
		o.Limit = 500
	}
}

// Offset calculates the offset for SQL queries based on page and limit.
func (o *ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}
