package state

// Store is the persistence contract for the feature inventory. The engine
// treats load, reconcile, save as one logical transaction: a failed scan
// must leave the previously saved state untouched.
type Store interface {
	// Load returns the persisted state, or a fresh empty state when none
	// has been saved yet.
	Load() (*State, error)
	// Save atomically replaces the persisted state.
	Save(*State) error
	// Close releases the store's resources.
	Close() error
}
