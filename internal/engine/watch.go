package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/webshift/webshift/internal/debug"
	"github.com/webshift/webshift/internal/types"
)

// Watcher re-runs a project analysis whenever python files under the root
// change. Change events are debounced so a burst of saves triggers one run.
// The content cache inside the Engine keeps unchanged files free to
// re-check.
type Watcher struct {
	engine      *Engine
	root        string
	projectName string
	debounce    time.Duration
	onResult    func(*types.ProjectAnalysisResult)
	onError     func(error)
}

// NewWatcher creates a watcher over root. onResult receives every completed
// analysis, including the initial one; onError may be nil.
func NewWatcher(e *Engine, root, projectName string, onResult func(*types.ProjectAnalysisResult), onError func(error)) *Watcher {
	debounceMs := e.cfg.Scan.WatchDebounceMs
	if debounceMs <= 0 {
		debounceMs = 300
	}
	return &Watcher{
		engine:      e,
		root:        root,
		projectName: projectName,
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		onResult:    onResult,
		onError:     onError,
	}
}

// Run analyzes once, then watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.runAnalysis(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.root); err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			debug.LogWatch("change detected: %s %s", event.Op, event.Name)
			// New directories need watching before their contents change.
			if event.Op.Has(fsnotify.Create) {
				if isDir, err := w.statDir(event.Name); err == nil && isDir {
					_ = w.addRecursive(fsw, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.runAnalysis(ctx)
		}
	}
}

func (w *Watcher) runAnalysis(ctx context.Context) {
	result, err := w.engine.Analyze(ctx, w.root, w.projectName)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onResult != nil {
		w.onResult(result)
	}
}

// relevant filters events down to python files and directory creation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || name == "__pycache__" {
		return false
	}
	if strings.EqualFold(filepath.Ext(name), ".py") {
		return true
	}
	if event.Op.Has(fsnotify.Create) {
		if isDir, err := w.statDir(event.Name); err == nil {
			return isDir
		}
	}
	return false
}

func (w *Watcher) statDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "__pycache__") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			debug.LogWatch("cannot watch %s: %v", path, err)
		}
		return nil
	})
}
