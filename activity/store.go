package activity

// Store manages the authorized backend allow-list.
type Store interface {
	// Add, enable or disable a backend.
	SetAuthorizedBackend(address string, enabled bool) error

	// Check whether a backend may trigger the switch.
	IsAuthorizedBackend(address string) (bool, error)

	// List all known backends.
	AuthorizedBackends() ([]AuthorizedBackend, error)
}
