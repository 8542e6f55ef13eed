package critic

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/verdict/errors"
)

// Watcher reloads a Store when files under its critic directory change.
// Editors fire bursts of events per save, so reloads are debounced.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger

	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher over the store's directory (and its
// _partials subdirectory, when present).
func NewWatcher(store *Store, logger *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := fw.Add(store.dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch critic dir %s", store.dir)
	}
	// Best effort; the partials dir is optional
	_ = fw.Add(filepath.Join(store.dir, partialsDir))

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Watcher{
		store:          store,
		watcher:        fw,
		logger:         logger,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if isIgnoredFile(event.Name) {
				continue
			}

			w.logger.Infow("critic watcher detected change",
				"file", event.Name,
				"op", event.Op.String(),
			)
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("critic watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid file changes before reloading.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.store.Reload(); err != nil {
			// Keep serving the previous snapshot
			w.logger.Errorw("critic reload failed", "error", err)
		}
	})
}

// isIgnoredFile filters editor temp/backup artifacts.
func isIgnoredFile(path string) bool {
	return strings.HasSuffix(path, "~") ||
		strings.HasSuffix(path, ".swp") ||
		strings.HasSuffix(path, ".tmp")
}
