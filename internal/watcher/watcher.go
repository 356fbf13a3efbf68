// Package watcher watches the two compared documents and publishes a
// debounced change event whenever either of them is saved.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/panediff/internal/log"
	"github.com/zjrosen/panediff/internal/pubsub"
)

// DefaultDebounce coalesces the burst of events an editor emits on save.
const DefaultDebounce = 300 * time.Millisecond

// Change lists the watched documents touched during one debounce window.
type Change struct {
	Paths []string
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for watching paths.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: DefaultDebounce,
	}
}

// Watcher monitors a set of files and publishes a Change when they are written.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	targets   map[string]struct{}
	debounce  time.Duration
	broker    *pubsub.Broker[Change]
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher for the configured paths. Paths are not touched
// until Start.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	targets := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		targets[abs] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.DebounceDur
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsw,
		targets:   targets,
		debounce:  debounce,
		broker:    pubsub.NewBroker[Change](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker change events are published on.
func (w *Watcher) Broker() *pubsub.Broker[Change] {
	return w.broker
}

// Start begins watching. Parent directories are watched rather than the
// files, so editors that save by rename are still seen.
func (w *Watcher) Start() error {
	var dirs []string
	for target := range w.targets {
		dirs = append(dirs, filepath.Dir(target))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	for _, dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	log.Debug(log.CatWatcher, "watching", "files", len(w.targets), "dirs", len(dirs))
	go w.loop()
	return nil
}

// Stop terminates the watcher and closes the broker.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.broker.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
		removed bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			path, relevant := w.relevantPath(event)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}
			if event.Op.Has(fsnotify.Remove) {
				removed = true
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			w.publish(pending, removed)
			pending = make(map[string]struct{})
			removed = false

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) publish(pending map[string]struct{}, removed bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	eventType := pubsub.ChangedEvent
	if removed {
		eventType = pubsub.RemovedEvent
	}
	log.Debug(log.CatWatcher, "documents changed", "paths", paths, "type", eventType)
	w.broker.Publish(eventType, Change{Paths: paths})
}

// relevantPath reports whether event touches a watched file.
// Chmod-only events are ignored.
func (w *Watcher) relevantPath(event fsnotify.Event) (string, bool) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	if _, ok := w.targets[abs]; !ok {
		return "", false
	}
	return abs, true
}
