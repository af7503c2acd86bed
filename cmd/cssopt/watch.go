package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher is a wrapper for watching file changes in directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	dirs    map[string]bool
	paths   map[string]bool

	mu     sync.Mutex
	ignore map[string]bool
}

// NewWatcher returns a new Watcher.
func NewWatcher(log *zap.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: watcher,
		log:     log,
		dirs:    map[string]bool{},
		paths:   map[string]bool{},
		ignore:  map[string]bool{},
	}, nil
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// AddPath adds a file or a directory tree to watch.
func (w *Watcher) AddPath(root string) error {
	root = filepath.Clean(root)
	w.paths[root] = true

	info, err := os.Lstat(root)
	if err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		root = filepath.Dir(root)
		if w.dirs[root] {
			return nil
		}
		if err := w.watcher.Add(root); err != nil {
			return err
		}
		w.dirs[root] = true
	} else if info.Mode().IsDir() {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if w.dirs[path] {
					return fs.SkipDir
				}
				if err := w.watcher.Add(path); err != nil {
					return err
				}
				w.dirs[path] = true
			}
			return nil
		})
	}
	return nil
}

// IgnoreNext skips the next change of filename, used for files we write ourselves.
func (w *Watcher) IgnoreNext(filename string) {
	if filename == "" {
		return
	}
	w.mu.Lock()
	w.ignore[filepath.Clean(filename)] = true
	w.mu.Unlock()
}

func (w *Watcher) ignored(filename string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ignore[filename] {
		delete(w.ignore, filename)
		return true
	}
	return false
}

// watched returns true if filename is a watched file or lies inside a watched directory.
func (w *Watcher) watched(filename string) bool {
	for path := range w.paths {
		if path == filename {
			return true
		}
		if rel, err := filepath.Rel(path, filename); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && IsDir(path) {
			return true
		}
	}
	return false
}

// Run watches for file changes and sends the names of written files. The channel is closed when the watcher is closed.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		changetimes := map[string]time.Time{}
		events, errors := w.watcher.Events, w.watcher.Errors
		for events != nil && errors != nil {
			select {
			case event, ok := <-events:
				if !ok {
					events = nil
					break
				}

				filename := filepath.Clean(event.Name)
				if !w.watched(filename) {
					break
				}

				if info, err := os.Lstat(filename); err == nil {
					if info.Mode().IsDir() {
						if event.Op&fsnotify.Create == fsnotify.Create {
							if err := w.AddPath(filename); err != nil {
								w.log.Error("watch directory", zap.String("path", filename), zap.Error(err))
							}
						}
					} else if info.Mode().IsRegular() {
						if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && !w.ignored(filename) {
							if t, ok := changetimes[filename]; !ok || 100*time.Millisecond < time.Since(t) {
								time.Sleep(100 * time.Millisecond) // wait to make sure write is finished
								files <- filename
								changetimes[filename] = time.Now()
							}
						}
					}
				}
			case err, ok := <-errors:
				if !ok {
					errors = nil
					break
				}
				w.log.Error("watch", zap.Error(err))
			}
		}
		close(files)
	}()
	return files
}
