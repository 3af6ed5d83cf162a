package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
)

// formatVersion is bumped whenever the on-disk layout changes. Files written
// with another version load as [ErrCorrupt].
const formatVersion = 1

type fileHeader struct {
	Version int
}

// FileStore keeps positions in a single file: a snappy-framed gob stream of a
// header followed by the position map. Saves are atomic.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cache file.
func (s *FileStore) Load() (Positions, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return Positions{}, apperrors.Wrap(apperrors.ErrCodeCacheRead, ErrMissing, "load %s", s.path)
	}
	if err != nil {
		return Positions{}, apperrors.Wrap(apperrors.ErrCodeCacheRead, fmt.Errorf("%w: %w", ErrCorrupt, err), "load %s", s.path)
	}
	defer f.Close()

	dec := gob.NewDecoder(snappy.NewReader(f))

	var hdr fileHeader
	if err := dec.Decode(&hdr); err != nil {
		return Positions{}, s.corrupt(err)
	}
	if hdr.Version != formatVersion {
		return Positions{}, s.corrupt(fmt.Errorf("unsupported format version %d", hdr.Version))
	}

	var p Positions
	if err := dec.Decode(&p); err != nil {
		return Positions{}, s.corrupt(err)
	}
	if p == nil {
		p = Positions{}
	}
	return p, nil
}

func (s *FileStore) corrupt(cause error) error {
	return apperrors.Wrap(apperrors.ErrCodeCacheRead, fmt.Errorf("%w: %w", ErrCorrupt, cause), "load %s", s.path)
}

// Save writes p to a temporary file next to the cache file and renames it into
// place, so readers never observe a partial file.
func (s *FileStore) Save(p Positions) (err error) {
	wrap := func(cause error) error {
		return apperrors.Wrap(apperrors.ErrCodeCacheWrite, cause, "save %s", s.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return wrap(err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := snappy.NewBufferedWriter(tmp)
	enc := gob.NewEncoder(w)
	if err := enc.Encode(fileHeader{Version: formatVersion}); err != nil {
		return wrap(err)
	}
	if p == nil {
		p = Positions{}
	}
	if err := enc.Encode(p); err != nil {
		return wrap(err)
	}
	if err := w.Close(); err != nil {
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return wrap(err)
	}
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
