// Package cache persists node positions between runs.
//
// The cache is a best-effort side file: a missing or unreadable file never
// stops a run. [Store.Load] always returns a usable (possibly empty)
// [Positions] and reports what went wrong through an error carrying
// [ErrMissing] or [ErrCorrupt]. [Store.Save] failures are reported so the
// caller can warn, but the rendered output is still produced.
//
// Use [NewStore] to get a [FileStore] for a path, or a [NullStore] when no
// path was given.
package cache

import "errors"

var (
	// ErrMissing is returned by [Store.Load] when the cache file does not exist.
	ErrMissing = errors.New("position cache missing")

	// ErrCorrupt is returned by [Store.Load] when the cache file exists but
	// cannot be decoded.
	ErrCorrupt = errors.New("position cache corrupt")
)

// Position is a node coordinate in layout space.
type Position struct {
	X, Y float64
}

// Positions maps node names to coordinates.
type Positions map[string]Position

// Store loads and saves positions.
type Store interface {
	// Load returns the cached positions. On failure it returns an empty,
	// non-nil map together with the error.
	Load() (Positions, error)

	// Save replaces the cached positions with p.
	Save(p Positions) error
}

// NewStore returns a [FileStore] for path, or a [NullStore] when path is empty.
func NewStore(path string) Store {
	if path == "" {
		return NullStore{}
	}
	return NewFileStore(path)
}
