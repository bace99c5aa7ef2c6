package localstore

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/go-faster/errors"
)

// Watch reports every write to key until ctx is cancelled. Because writes are
// last-writer-wins across processes, watching is how a long-running reader
// notices that another process replaced the value under it.
//
// Notifications are coalesced: if the consumer lags, intermediate writes
// collapse into a single signal. The channel is closed when ctx is done or
// the underlying watcher fails.
func (s *Store) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	// Watch the directory, not the file: Set replaces the file by rename, and
	// a watch on the old inode would go stale after the first write.
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return nil, errors.Wrap(err, "watch state dir")
	}

	target := s.path(key)
	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		defer func() { _ = w.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != target {
					continue
				}
				if !ev.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Rename) {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return ch, nil
}
