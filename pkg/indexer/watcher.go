package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// FileWatcher watches a workspace and re-documents changed files.
//
// **Features:**
//   - Debouncing - Groups rapid changes to a file into one re-parse
//   - Selective - Only changed files are parsed again
//   - New directories are watched as they appear
//
// **Usage:**
//
//	watcher, err := NewFileWatcher(parser, files, index, DefaultWatchOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	watcher.OnChange(func(ev WatchEvent) { ... })
//	if err := watcher.Start(ctx, "/path/to/app"); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type FileWatcher struct {
	watcher *fsnotify.Watcher
	parser  *vuedoc.Parser
	files   util.FileCache
	index   *ComponentIndex
	logger  *slog.Logger
	options WatchOptions

	root     string
	ctx      context.Context
	onChange WatchCallback

	// Debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(
	parser *vuedoc.Parser,
	files util.FileCache,
	index *ComponentIndex,
	options WatchOptions,
	logger *slog.Logger,
) (*FileWatcher, error) {
	if err := ValidatePatterns(options.Include, options.Exclude); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.DebounceMs <= 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:        watcher,
		parser:         parser,
		files:          files,
		index:          index,
		logger:         logger,
		options:        options,
		ctx:            context.Background(),
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// OnChange registers the callback receiving processed changes. It must be
// called before Start.
func (fw *FileWatcher) OnChange(fn WatchCallback) {
	fw.onChange = fn
}

// Start watches rootPath and every directory below it that is not
// excluded. Events are processed on a background goroutine until Stop or
// until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context, rootPath string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if fw.started {
		return fmt.Errorf("watcher already started")
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	fw.root = root
	fw.ctx = ctx

	if err := fw.watchTree(root); err != nil {
		return err
	}

	fw.started = true
	fw.logger.Info("File watcher started", "root", root)

	go fw.eventLoop()
	return nil
}

// watchTree adds dir and its subdirectories to the watcher.
func (fw *FileWatcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != fw.root && fw.excluded(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the file watcher. Safe to call multiple times.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	started := fw.started
	close(fw.stopChan)
	fw.mu.Unlock()

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	if started {
		<-fw.done
	}
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	defer close(fw.done)
	for {
		select {
		case <-fw.stopChan:
			return

		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if fw.excluded(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(path); err == nil && isDir {
			if err := fw.watchTree(path); err != nil {
				fw.logger.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !fw.matches(path) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		fw.removeFile(path, event.Op.String())
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		fw.index.InvalidateFile(path)
		fw.debounceReparse(path, event.Op.String())
	}
}

// debounceReparse schedules a re-parse after the debounce delay. Only the
// last event of a burst triggers the parse.
func (fw *FileWatcher) debounceReparse(path, op string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	fw.debounceTimers[path] = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.debounceMu.Lock()
			delete(fw.debounceTimers, path)
			fw.debounceMu.Unlock()

			fw.reparseFile(path, op)
		},
	)
}

func (fw *FileWatcher) reparseFile(path, op string) {
	select {
	case <-fw.stopChan:
		return
	default:
	}

	fw.files.Invalidate(path)
	ev := WatchEvent{FilePath: path, Op: op, Timestamp: time.Now()}

	content, err := fw.files.Read(path)
	if err == nil {
		ev.Component, err = fw.parser.Parse(fw.ctx, vuedoc.Source{Path: path, Content: content})
	}
	if err != nil {
		fw.logger.Warn("Failed to re-parse file", "file", path, "error", err)
		ev.Err = err
		ev.Component = nil
	} else {
		fw.index.Add(path, ev.Component, ComputeContentHash(content))
		fw.logger.Debug("File re-parsed", "file", path, "component", ev.Component.Name)
	}

	fw.notify(ev)
}

func (fw *FileWatcher) removeFile(path, op string) {
	fw.debounceMu.Lock()
	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
		delete(fw.debounceTimers, path)
	}
	fw.debounceMu.Unlock()

	fw.files.Invalidate(path)
	fw.index.RemoveFile(path)
	fw.logger.Debug("File removed from index", "file", path)
	fw.notify(WatchEvent{FilePath: path, Op: op, Timestamp: time.Now()})
}

func (fw *FileWatcher) notify(ev WatchEvent) {
	if fw.onChange != nil {
		fw.onChange(ev)
	}
}

func (fw *FileWatcher) excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return excluded(fw.options.Exclude, relativePath(fw.root, path))
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (fw *FileWatcher) matches(path string) bool {
	return included(fw.options.Include, relativePath(fw.root, path))
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := fw.started && !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingReparses: pending,
		IsRunning:       running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingReparses int
	IsRunning       bool
}
