// Package watch re-checks SQL files whenever they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/internal/history"
)

// Result is the outcome of checking one file
type Result struct {
	Path     string
	Analysis *stormsql.Analysis
	// Err is set when the file could not be read or was rejected
	Err error
}

// Config holds watcher configuration
type Config struct {
	// Paths are files or directories; directories are not descended into
	Paths      []string
	Extensions []string
	Debounce   time.Duration
	Engine     *stormsql.Engine
	Recorder   *history.Recorder
	Logger     *mdwlog.Logger
}

// Watcher checks files on change
type Watcher struct {
	fs     *fsnotify.Watcher
	config Config
	logger *mdwlog.Logger
	// explicit files; empty means every matching file in a watched directory
	files map[string]bool
}

// New creates a watcher and registers the configured paths
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, mdwerror.New("no paths to watch").WithCode(mdwerror.CodeInvalidInput)
	}
	if cfg.Engine == nil {
		cfg.Engine = stormsql.New(stormsql.Options{IncludeComments: true, Logger: cfg.Logger})
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".sql"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create file watcher").WithCode(mdwerror.CodeInternal)
	}

	w := &Watcher{
		fs:     fsw,
		config: cfg,
		logger: logger.WithField("component", "watch"),
		files:  make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, mdwerror.Wrap(err, "invalid path").WithCode(mdwerror.CodeInvalidInput).WithDetail("path", p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsw.Close()
			return nil, mdwerror.Wrap(err, "cannot watch path").WithCode(mdwerror.CodeNotFound).WithDetail("path", p)
		}
		if info.IsDir() {
			dirs[abs] = true
			continue
		}
		// editors replace files on save, so watch the parent directory
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, mdwerror.Wrap(err, "failed to watch directory").WithCode(mdwerror.CodeInternal).WithDetail("path", dir)
		}
	}

	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Matches reports whether path is one of the watched files
func (w *Watcher) Matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	if _, watchedDir := w.dirOnly(filepath.Dir(abs)); !watchedDir {
		return false
	}
	return HasExtension(abs, w.config.Extensions)
}

// dirOnly reports whether dir was given as a directory, not as a file's parent
func (w *Watcher) dirOnly(dir string) (string, bool) {
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err == nil && abs == dir {
			if info, err := os.Stat(abs); err == nil && info.IsDir() {
				return abs, true
			}
		}
	}
	return "", false
}

// Files lists the files currently matched, sorted
func (w *Watcher) Files() []string {
	seen := make(map[string]bool)
	for f := range w.files {
		seen[f] = true
	}
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		entries, err := os.ReadDir(abs)
		if err != nil {
			continue
		}
		for _, e := range entries {
			full := filepath.Join(abs, e.Name())
			if !e.IsDir() && HasExtension(full, w.config.Extensions) {
				seen[full] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Check analyses a single file and records it
func (w *Watcher) Check(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: mdwerror.Wrap(err, "failed to read file").WithCode(mdwerror.CodeNotFound).WithDetail("path", path)}
	}

	analysis, err := w.config.Engine.Analyze(string(data))
	if err != nil {
		return Result{Path: path, Err: err}
	}

	if _, err := w.config.Recorder.Record(ctx, history.OriginWatch, "check", "", analysis); err != nil {
		w.logger.WarnWithErr("failed to record check", err, mdwlog.Fields{"path": path})
	}
	return Result{Path: path, Analysis: analysis}
}

// Run checks all matched files once, then re-checks files as they change
// until ctx is done. handle is called from the Run goroutine only.
func (w *Watcher) Run(ctx context.Context, handle func(Result)) error {
	for _, f := range w.Files() {
		handle(w.Check(ctx, f))
	}

	fired := make(chan string, 16)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Matches(ev.Name) {
				continue
			}
			path := ev.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.config.Debounce, func() {
				select {
				case fired <- path:
				case <-ctx.Done():
				}
			})

		case path := <-fired:
			delete(timers, path)
			if _, err := os.Stat(path); err != nil {
				// renamed away or deleted
				continue
			}
			w.logger.Debug("file changed", mdwlog.Fields{"path": path})
			handle(w.Check(ctx, path))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnWithErr("watch error", err)
		}
	}
}

// HasExtension reports whether path ends in one of exts, case-insensitively
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
