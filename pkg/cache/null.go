package cache

// NullStore is a no-op store used when no cache file was configured.
type NullStore struct{}

// Load always returns empty positions and no error.
func (NullStore) Load() (Positions, error) {
	return Positions{}, nil
}

// Save does nothing.
func (NullStore) Save(Positions) error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = NullStore{}
