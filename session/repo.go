package session

// Repository persists the session's two string keys (token and username).
// The pair is written and cleared together, never independently. A repository
// may be shared between processes; the Store polls it to pick up writes made
// elsewhere.
type Repository interface {
	// Get returns the persisted token and username. Empty strings mean no
	// session is persisted.
	Get() (token string, username string, err error)

	// Set stores both keys atomically.
	Set(token, username string) error

	// Clear removes both keys.
	Clear() error
}
