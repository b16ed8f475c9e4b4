// Package watch re-runs a dump whenever one of the watched source
// files changes, using OS-native notifications.
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Event reports a changed source file.
type Event struct {
	Path string
}

// Watcher wraps fsnotify and filters events down to content changes
// on the watched files.
type Watcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error
}

// New creates a watcher for the given files.
func New(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{w: fw, evC: make(chan Event, 64), erC: make(chan error, 1)}
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.evC <- Event{Path: ev.Name}
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.erC <- err
		}
	}
}

// Events returns the change event channel.
func (w *Watcher) Events() <-chan Event { return w.evC }

// Errors returns the watcher error channel.
func (w *Watcher) Errors() <-chan error { return w.erC }

// Close stops the watcher.
func (w *Watcher) Close() error { return w.w.Close() }
