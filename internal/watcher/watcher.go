// Package watcher reports batches of source changes under a project root.
// It drives `constrictor run --reload`.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultExtensions are the file types whose changes trigger a reload.
var DefaultExtensions = []string{".go", ".html", ".yml", ".yaml", ".mod", ".sum"}

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string

	// Ignore holds doublestar patterns relative to Root.
	Ignore []string

	// Extensions limits which files trigger a change. Empty means
	// DefaultExtensions.
	Extensions []string

	// Debounce is how long the watcher waits for events to settle.
	Debounce time.Duration

	Logger *log.Logger
}

// Watcher watches a directory tree and delivers debounced change batches.
type Watcher struct {
	cfg     Config
	fs      *fsnotify.Watcher
	fsMu    sync.Mutex
	logger  *log.Logger
	exts    map[string]bool
	pending map[string]struct{}
}

// New creates a watcher and registers every non-ignored directory under
// cfg.Root.
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}
	cfg.Root = root
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions
	}
	for _, p := range cfg.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		cfg:     cfg,
		fs:      fsw,
		logger:  cfg.Logger,
		exts:    make(map[string]bool, len(cfg.Extensions)),
		pending: make(map[string]struct{}),
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	for _, ext := range cfg.Extensions {
		w.exts[ext] = true
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.fsMu.Lock()
	defer w.fsMu.Unlock()
	return w.fs.Close()
}

// ShouldIgnore reports whether path (absolute or relative to Root) matches
// an ignore pattern.
func (w *Watcher) ShouldIgnore(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		var err error
		if rel, err = filepath.Rel(w.cfg.Root, path); err != nil {
			return false
		}
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}
	for _, pattern := range w.cfg.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// A pattern like "tmp/**" also excludes the directory itself.
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) relevant(path string) bool {
	if w.ShouldIgnore(path) {
		return false
	}
	return w.exts[filepath.Ext(path)]
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ShouldIgnore(path) {
			return filepath.SkipDir
		}

		w.fsMu.Lock()
		addErr := w.fs.Add(path)
		w.fsMu.Unlock()
		if addErr != nil {
			return fmt.Errorf("watching %s: %w", path, addErr)
		}
		return nil
	})
}

// Run delivers change batches to onChange until ctx is cancelled. Each
// batch holds the sorted, de-duplicated paths relative to Root.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
			if len(w.pending) > 0 {
				timer.Reset(w.cfg.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			if batch := w.flush(); len(batch) > 0 {
				onChange(batch)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ShouldIgnore(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.relevant(event.Name) {
		return
	}

	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
	w.pending[event.Name] = struct{}{}
}

func (w *Watcher) flush() []string {
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		rel, err := filepath.Rel(w.cfg.Root, p)
		if err != nil {
			rel = p
		}
		batch = append(batch, filepath.ToSlash(rel))
	}
	w.pending = make(map[string]struct{})
	sort.Strings(batch)
	return batch
}
