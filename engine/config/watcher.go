package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/vortex/engine/core"
)

// ChangeCallback is invoked with the freshly reloaded configuration whenever
// the watched file changes on disk.
type ChangeCallback func(*Config)

// CallbackHandle identifies a registered callback. Zero is never handed out.
type CallbackHandle uint32

type registeredCallback struct {
	handle   CallbackHandle
	callback ChangeCallback
}

// Watcher reloads a configuration file when it changes and notifies
// registered callbacks. Watching happens on a background goroutine; callback
// registration is safe from any goroutine.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher

	mutex      sync.Mutex
	callbacks  []registeredCallback
	nextHandle CallbackHandle

	done     chan struct{}
	isClosed bool
}

func NewWatcher(path string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:       path,
		fsnotify:   fsWatch,
		nextHandle: 1,
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching the configuration file. Editors often replace the
// file rather than write it in place, so the parent directory is watched and
// events are filtered by name.
func (w *Watcher) Start() error {
	if w.isClosed {
		return errors.New("config watcher already closed")
	}
	if err := w.fsnotify.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.watch()
	return nil
}

// RegisterCallback adds a callback invoked on every successful reload.
func (w *Watcher) RegisterCallback(callback ChangeCallback) CallbackHandle {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	handle := w.nextHandle
	w.nextHandle++
	w.callbacks = append(w.callbacks, registeredCallback{handle: handle, callback: callback})
	return handle
}

// UnregisterCallback removes a previously registered callback.
func (w *Watcher) UnregisterCallback(handle CallbackHandle) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	for i, cb := range w.callbacks {
		if cb.handle == handle {
			w.callbacks = append(w.callbacks[:i], w.callbacks[i+1:]...)
			return
		}
	}
}

func (w *Watcher) Close() error {
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return w.fsnotify.Close()
}

func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err.Error())
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		// A half-written file is expected mid-save; keep the old config.
		core.LogWarn("config reload failed for %s: %s", w.path, err.Error())
		return
	}

	core.LogInfo("configuration reloaded from %s", w.path)

	w.mutex.Lock()
	callbacks := make([]registeredCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mutex.Unlock()

	for _, cb := range callbacks {
		cb.callback(cfg)
	}
}
