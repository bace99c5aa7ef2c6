// Package localstore implements kv.Store on top of a local state directory,
// one JSON file per key. It is the storefront's stand-in for browser
// localStorage: values carry no schema version, so a shape change invalidates
// old state instead of migrating it.
package localstore

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/ajju853/sparkle-storefront/internal/storage/kv"
)

var _ kv.Store = (*Store)(nil)

// Store persists each key as <dir>/<key>.json. Writes go through a temp file
// and an atomic rename, so readers never observe a torn value. There is no
// cross-process locking: two processes writing the same key race, and the
// last rename wins.
type Store struct {
	dir string
}

// Open creates the state directory if needed and returns a Store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the stored value for key. A missing file is (nil, false, nil).
func (s *Store) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return raw, true, nil
}

// Set replaces the stored value for key atomically.
func (s *Store) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", key)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close temp file for %s", key)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return errors.Wrapf(err, "replace %s", key)
	}
	return nil
}

// Delete removes the stored value for key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}
