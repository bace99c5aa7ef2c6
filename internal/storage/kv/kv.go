// Package kv defines the persisted key-value storage contract shared by the
// cart and auth stores. Values are opaque JSON blobs written whole: every
// mutation rewrites the full collection under its key, so concurrent writers
// sharing the same backing store are last-writer-wins at whole-value
// granularity.
package kv

// Store is a synchronous key-value store. Get reports whether the key was
// present so callers can distinguish "never written" from an empty value.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}
