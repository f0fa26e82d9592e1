package indexer

import (
	"time"

	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// FileDocs is the documentation of a single file.
//
// This is the unit of caching in the ComponentIndex. A file's component
// and its content hash are stored together for retrieval and invalidation.
type FileDocs struct {
	// FilePath is the absolute path to the file
	FilePath string

	// Component documented by the file
	Component *vuedoc.Component

	// Timestamp when the file was indexed (Unix milliseconds)
	Timestamp int64

	// ContentHash is SHA-256 hash of file content (for change detection)
	// Optional - may be empty if not computed
	ContentHash string
}

// IndexConfig configures the component index behavior.
type IndexConfig struct {
	// MaxCachedFiles is the maximum number of files to keep in the LRU cache.
	// When the cache is full, least recently used files are evicted along
	// with their components.
	// Default: 5000 files
	MaxCachedFiles int

	// Debug enables verbose logging
	Debug bool
}

// DefaultIndexConfig returns the default configuration.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		MaxCachedFiles: 5000,
		Debug:          false,
	}
}

// IndexStats provides statistics about the index state.
type IndexStats struct {
	// IndexedFiles is the total number of files indexed (including evicted)
	IndexedFiles int

	// Components is the count of components currently in the index
	Components int

	// CachedFiles is the number of files currently in the LRU cache
	CachedFiles int

	// DirtyFiles is the number of files marked for recomputation
	DirtyFiles int

	CacheHits   int64
	CacheMisses int64

	// CacheHitRate is the percentage of cache hits (0.0 - 1.0)
	CacheHitRate float64

	// Evictions is the number of LRU evictions that have occurred
	Evictions int64

	// AverageIndexTimeMs is the average time to index a file
	AverageIndexTimeMs float64
}

// ScanOptions configures workspace scanning behavior.
type ScanOptions struct {
	// Include patterns (doublestar syntax, e.g., "**/*.vue"), relative to
	// the scan root. If empty, every file not excluded matches.
	Include []string `yaml:"include"`

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string `yaml:"exclude"`

	// Workers is the worker pool size. 0 = util.GetOptimalPoolSize().
	Workers int `yaml:"workers"`
}

// DefaultScanOptions returns recommended scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.vue",
		},
		Exclude: []string{
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			".nuxt/**",
			".output/**",
		},
	}
}

// ScanStats contains statistics about a workspace scan.
type ScanStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesIndexed is the number of files successfully documented
	FilesIndexed int

	// FilesFailed is the number of files that failed
	FilesFailed int

	// EntriesExtracted is the total number of documentation entries
	EntriesExtracted int

	// Diagnostics is the total number of errors and warnings reported
	// inside documented components
	Diagnostics int

	TotalTimeMs     int64
	DiscoveryTimeMs int64
	IndexingTimeMs  int64

	// AverageFileTimeMs is average time per file
	AverageFileTimeMs float64

	// FilesPerSecond is the throughput rate
	FilesPerSecond float64

	// WorkerCount is the number of workers used
	WorkerCount int

	// SuccessRate is the percentage of files successfully indexed (0.0 - 1.0)
	SuccessRate float64

	// Errors contains per-file errors (if any), sorted by path
	Errors []FileError

	// Cancelled indicates if the scan was cancelled
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is called after each processed file during a scan.
//
// Parameters:
//   - done: Number of files processed so far, failures included
//   - total: Total number of files to process
//   - currentFile: Path of the file just processed
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds
	// Multiple rapid changes are grouped into a single re-parse
	// Default: 200ms
	DebounceMs int

	// Include and Exclude use the same syntax as ScanOptions.
	Include []string
	Exclude []string

	// IgnorePatterns match file base names (e.g. editor swap files)
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	scan := DefaultScanOptions()
	return WatchOptions{
		DebounceMs: 200,
		Include:    scan.Include,
		Exclude:    scan.Exclude,
		IgnorePatterns: []string{
			"*.swp",
			"*.tmp",
			"*~",
		},
	}
}

// WatchEvent represents a processed file system change.
type WatchEvent struct {
	// FilePath is the absolute path to the changed file
	FilePath string

	// Op is the operation that occurred (Create, Write, Remove, Rename)
	Op string

	// Component is the re-parsed documentation; nil for removals and
	// failures
	Component *vuedoc.Component

	// Err is set when the file could not be re-parsed
	Err error

	Timestamp time.Time
}

// WatchCallback receives every processed change.
type WatchCallback func(WatchEvent)
