package difficulty

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is the quiet period after the last event before reloading.
const reloadDebounce = 100 * time.Millisecond

// TableWatcher reloads a gene table file when it changes and hands it to a
// controller, which applies it between rounds.
type TableWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	ctrl    *Controller
	logger  *slog.Logger

	// Reloads receives the row count of every successfully reloaded table.
	Reloads chan int
	// Errors receives watch and parse failures.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchTable watches path's directory so editor renames are seen.
func WatchTable(path string, ctrl *Controller, logger *slog.Logger) (*TableWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving gene table path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	tw := &TableWatcher{
		watcher: w,
		path:    abs,
		ctrl:    ctrl,
		logger:  logger,
		Reloads: make(chan int, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

// Close stops watching. It is safe to call more than once.
func (tw *TableWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		close(tw.closeCh)
		err = tw.watcher.Close()
		<-tw.done
		close(tw.Reloads)
		close(tw.Errors)
	})
	return err
}

func (tw *TableWatcher) run() {
	defer close(tw.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			tw.reload()
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.report(err)
		case <-tw.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (tw *TableWatcher) reload() {
	t, err := LoadGeneTable(tw.path)
	if err != nil {
		tw.report(err)
		return
	}
	tw.ctrl.QueueTable(t)
	select {
	case tw.Reloads <- t.Len():
	default:
	}
}

func (tw *TableWatcher) report(err error) {
	tw.logger.Warn("gene table watch failed", "path", tw.path, "err", err)
	select {
	case tw.Errors <- err:
	default:
	}
}
