package catalog

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-faster/errors"
)

var _ Source = (*Snapshot)(nil)

// snapshotFile is the on-disk shape of a catalog snapshot. Like the rest of
// the persisted state it carries no schema version; a shape change makes old
// snapshots unreadable and they are simply re-pulled.
type snapshotFile struct {
	FetchedAt  time.Time `json:"fetched_at"`
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}

// WriteSnapshot fetches the full catalog from src and writes it to path, for
// later offline browsing through a Snapshot source.
func WriteSnapshot(ctx context.Context, src Source, path string) (int, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch products")
	}
	categories, err := src.Categories(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch categories")
	}

	raw, err := json.Marshal(snapshotFile{
		FetchedAt:  time.Now().UTC(),
		Products:   products,
		Categories: categories,
	})
	if err != nil {
		return 0, errors.Wrap(err, "encode snapshot")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return 0, errors.Wrap(err, "write snapshot")
	}
	return len(products), nil
}

// Snapshot serves the catalog from a snapshot file written by WriteSnapshot.
type Snapshot struct {
	path string
}

// OpenSnapshot returns a Snapshot source reading from path. The file is
// re-read on every call, so a fresh pull is picked up without restarting.
func OpenSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

func (s *Snapshot) load() (*snapshotFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	var f snapshotFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return &f, nil
}

// FetchedAt reports when the snapshot was pulled.
func (s *Snapshot) FetchedAt() (time.Time, error) {
	f, err := s.load()
	if err != nil {
		return time.Time{}, err
	}
	return f.FetchedAt, nil
}

// Products lists the snapshot's products.
func (s *Snapshot) Products(_ context.Context) ([]Product, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Products, nil
}

// Product returns one snapshot product by ID.
func (s *Snapshot) Product(_ context.Context, id int64) (*Product, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range f.Products {
		if f.Products[i].ID == id {
			return &f.Products[i], nil
		}
	}
	return nil, ErrNotFound
}

// Categories lists the snapshot's category names.
func (s *Snapshot) Categories(_ context.Context) ([]string, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Categories, nil
}
