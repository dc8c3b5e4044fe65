package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/gwatch/internal/logger"
)

// CycleTrigger requests an immediate renewal cycle.
// Implemented by the renewer service.
type CycleTrigger interface {
	TriggerCycle()
}

// DirWatcher watches the tokens directory so accounts added or removed
// at runtime are picked up without restarting the daemon.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	trigger CycleTrigger
}

// NewDirWatcher creates a watcher on dir that fires trigger when token
// files appear or disappear.
func NewDirWatcher(dir string, trigger CycleTrigger) (*DirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching tokens directory: %w", err)
	}
	return &DirWatcher{watcher: watcher, trigger: trigger}, nil
}

// Run processes events until the context is cancelled or Close is called.
func (w *DirWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isTokenFileEvent(event) {
				continue
			}
			logger.Info("tokens directory changed (%s), requesting renewal cycle", event.Name)
			w.trigger.TriggerCycle()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("tokens directory watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *DirWatcher) Close() error {
	return w.watcher.Close()
}

// isTokenFileEvent reports whether the event concerns a token file.
// Writes to state files happen on every renewal and must not retrigger
// a cycle.
func isTokenFileEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := event.Name
	return strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, stateSuffix) &&
		!strings.HasSuffix(name, ".tmp")
}
