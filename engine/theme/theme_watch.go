package theme

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit for a single save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a theme file into a Table whenever it changes on disk.
// Parse failures are logged and leave the table untouched.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	table   Table

	// Reloaded receives the number of entries after every successful reload.
	// Sends are non-blocking; slow readers miss intermediate notifications.
	Reloaded chan int
	// Errors receives watcher and parse errors. Sends are non-blocking.
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path and pushes every valid revision into table.
// The parent directory is watched rather than the file so that editors which
// save via rename are still observed.
//
// Parameters:
//   - path: the YAML theme file
//   - table: the table to update
//
// Returns:
//   - *Watcher: the running watcher; call Close to stop it
//   - error: error if the underlying fsnotify watcher cannot be created
func Watch(path string, table Table) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		path:     abs,
		table:    table,
		Reloaded: make(chan int, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Safe to call multiple times.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Trailing edge: reload once the burst has been quiet for reloadDebounce.
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	entries, def, err := ParseFile(w.path)
	if err != nil {
		log.Printf("[Theme] reload of %s failed, keeping previous table: %v", w.path, err)
		w.report(err)
		return
	}
	merged := merge(entries)
	w.table.Replace(merged, def)
	log.Printf("[Theme] reloaded %d themes from %s", len(merged), w.path)

	select {
	case w.Reloaded <- len(merged):
	default:
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
