package jsonstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of file events is coalesced before one
// notification goes out.
const settle = 100 * time.Millisecond

// Watch signals on the returned channel whenever the namespace's snapshot file
// is replaced or written. Bursts are coalesced and a notification is dropped
// if the previous one has not been consumed yet. The channel closes when ctx
// is done or the watcher fails.
func (s *Store) Watch(ctx context.Context, namespace string) (<-chan struct{}, error) {
	target, err := s.Path(namespace)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file's inode.
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		defer w.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				pending = nil
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if pending == nil {
					pending = time.After(settle)
				}
			}
		}
	}()
	return out, nil
}
