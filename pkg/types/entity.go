package types

// NamedEntity is a row from one of the reference tables (islands or
// characters): an identifier plus a display name. Reference data is
// immutable at runtime; the voice resolver treats it as a small,
// fully-loaded lookup list per request.
type NamedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
