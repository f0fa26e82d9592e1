package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache reads component files through read-only memory maps.
//
// Files are mapped lazily on first Read and stay mapped until Invalidate or
// Close. When mmap fails the file is read with os.ReadFile instead and kept
// in memory. All methods are safe for concurrent use.
type FileCache interface {
	// Read returns the file contents. The returned slice is a copy and stays
	// valid after Invalidate or Close.
	Read(filePath string) ([]byte, error)

	// Invalidate unmaps a file so the next Read sees the current contents.
	Invalidate(filePath string)

	// Size returns the number of cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps every file.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles bounds the number of cached files. 0 means unlimited.
	MaxFiles int

	// MaxMemoryMB bounds the mapped size in MB. 0 means unlimited.
	MaxMemoryMB int

	// Logger for warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig fits component trees of a few thousand files.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:    10000,
		MaxMemoryMB: 1024,
	}
}

// MappedFile is a cached file.
type MappedFile struct {
	Path     string
	Data     mmap.MMap
	File     *os.File
	Size     int64
	MappedAt time.Time
	ModTime  time.Time

	// fallback marks data read with os.ReadFile
	fallback bool
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	Invalidations int64
	TotalMappedMB float64
}

// NewFileCache creates a FileCache. A nil config uses DefaultFileCacheConfig.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*MappedFile),
	}
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	files map[string]*MappedFile
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

func (fc *fileCache) Read(filePath string) ([]byte, error) {
	// the copy happens under the read lock so a concurrent Invalidate
	// cannot unmap the region mid-copy
	for attempt := 0; attempt < 3; attempt++ {
		if _, err := fc.get(filePath); err != nil {
			return nil, err
		}
		fc.mu.RLock()
		if mf, ok := fc.files[filePath]; ok {
			out := make([]byte, len(mf.Data))
			copy(out, mf.Data)
			fc.mu.RUnlock()
			return out, nil
		}
		fc.mu.RUnlock()
	}
	return nil, fmt.Errorf("file %q invalidated while reading", filePath)
}

// get returns the cached file, reloading it when it changed on disk since
// it was mapped.
func (fc *fileCache) get(filePath string) (*MappedFile, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		fc.count(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	fc.mu.RLock()
	mf, ok := fc.files[filePath]
	fc.mu.RUnlock()
	if ok && mf.ModTime.Equal(stat.ModTime()) && mf.Size == stat.Size() {
		fc.count(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files[filePath]; ok {
		if mf.ModTime.Equal(stat.ModTime()) && mf.Size == stat.Size() {
			fc.count(func(s *FileCacheStats) { s.CacheHits++ })
			return mf, nil
		}
		fc.release(mf)
		delete(fc.files, filePath)
	}

	if err := fc.checkLimits(stat.Size()); err != nil {
		fc.count(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, err
	}

	mf, err = fc.load(filePath, stat)
	if err != nil {
		fc.count(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, err
	}
	fc.files[filePath] = mf
	fc.count(func(s *FileCacheStats) {
		s.CacheMisses++
		s.FilesLoaded++
	})
	return mf, nil
}

// checkLimits must be called with mu held.
func (fc *fileCache) checkLimits(newFileSize int64) error {
	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return fmt.Errorf("file cache limit reached: %d files (limit: %d files)",
			len(fc.files), fc.config.MaxFiles)
	}
	if fc.config.MaxMemoryMB > 0 {
		currentMB := fc.mappedMBLocked()
		newMB := float64(newFileSize) / (1024 * 1024)
		if currentMB+newMB >= float64(fc.config.MaxMemoryMB) {
			return fmt.Errorf("file cache memory limit reached: %.2f MB + %.2f MB (limit: %d MB)",
				currentMB, newMB, fc.config.MaxMemoryMB)
		}
	}
	return nil
}

// load maps a file read-only, falling back to os.ReadFile.
func (fc *fileCache) load(filePath string, stat os.FileInfo) (*MappedFile, error) {
	mf := &MappedFile{
		Path:     filePath,
		Size:     stat.Size(),
		MappedAt: time.Now(),
		ModTime:  stat.ModTime(),
	}

	// zero bytes cannot be mapped
	if stat.Size() == 0 {
		mf.fallback = true
		return mf, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "size", stat.Size(), "error", err)
		fc.count(func(s *FileCacheStats) { s.MmapFailures++ })

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		mf.Data = mmap.MMap(raw)
		mf.fallback = true
		return mf, nil
	}

	mf.Data = data
	mf.File = file
	return mf, nil
}

// release must be called with mu held.
func (fc *fileCache) release(mf *MappedFile) error {
	var firstErr error
	if !mf.fallback && mf.Data != nil {
		if err := mf.Data.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "path", mf.Path, "error", err)
			firstErr = fmt.Errorf("unmap %q: %w", mf.Path, err)
		}
	}
	if mf.File != nil {
		if err := mf.File.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %q: %w", mf.Path, err)
		}
	}
	return firstErr
}

func (fc *fileCache) Invalidate(filePath string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files[filePath]; ok {
		fc.release(mf)
		delete(fc.files, filePath)
		fc.count(func(s *FileCacheStats) { s.Invalidations++ })
	}
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.files)
	mapped := fc.mappedMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mapped
	return stats
}

func (fc *fileCache) mappedMBLocked() float64 {
	var total int64
	for _, mf := range fc.files {
		total += mf.Size
	}
	return float64(total) / (1024 * 1024)
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for _, mf := range fc.files {
		if err := fc.release(mf); err != nil {
			errs = append(errs, err)
		}
	}
	fc.files = make(map[string]*MappedFile)

	fc.statsMu.Lock()
	fc.logger.Debug("file cache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"mmap_failures", fc.stats.MmapFailures)
	fc.statsMu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCache) count(fn func(*FileCacheStats)) {
	fc.statsMu.Lock()
	fn(&fc.stats)
	fc.statsMu.Unlock()
}
