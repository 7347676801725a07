package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ngo-cms/pkg/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invalidates the content index when files under the content
// directory change. Bursts of events within the debounce window cause one
// invalidation.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	running bool
	doneCh  chan struct{}
}

func NewWatcher(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds the content tree and runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.root, 0755); err != nil {
		return err
	}
	if err := w.addTree(w.root); err != nil {
		return err
	}

	go w.loop(ctx)
	// Stop waits on the loop only once it is actually running.
	w.running = true
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addTree(ev.Name)
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			logging.L().Debug("content changed, invalidating index", zap.String("root", w.root))
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.L().Warn("content watcher", zap.Error(err))
		}
	}
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	if running {
		<-w.doneCh
	}
	return err
}
