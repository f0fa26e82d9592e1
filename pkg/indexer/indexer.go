// Package indexer discovers component files, documents them in parallel and
// keeps the results in an in-memory index that a file watcher keeps fresh.
package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// ComponentIndex provides component lookups by name and by file, with lazy
// invalidation.
//
// **Architecture:**
//   - Hash map for O(1) component lookups by name
//   - LRU cache of FileDocs for memory management
//   - Reverse index from file to component name for removal
//
// **Thread Safety:**
//   - sync.RWMutex for concurrent access
//   - Atomic counters for statistics
//
// **Usage:**
//
//	index := NewComponentIndex(DefaultIndexConfig(), logger)
//	defer index.Close()
//
//	index.Add(filePath, component, ComputeContentHash(content))
//	docs, found := index.Get("TextInput")
type ComponentIndex struct {
	// Primary storage: component name → FileDocs
	components map[string]*FileDocs

	// LRU cache: FilePath → FileDocs
	fileCache *lru.Cache[string, *FileDocs]

	// Reverse index: FilePath → component name
	fileToComponent map[string]string

	// Lazy invalidation tracking: FilePath → isDirty
	dirtyFiles map[string]bool

	mu sync.RWMutex

	indexedFiles   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	evictions      atomic.Int64
	totalIndexTime atomic.Int64 // Microseconds

	config IndexConfig
	logger *slog.Logger
}

// NewComponentIndex creates a new component index.
func NewComponentIndex(config IndexConfig, logger *slog.Logger) *ComponentIndex {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = DefaultIndexConfig().MaxCachedFiles
	}

	ci := &ComponentIndex{
		components:      make(map[string]*FileDocs, 256),
		fileToComponent: make(map[string]string, 256),
		dirtyFiles:      make(map[string]bool),
		config:          config,
		logger:          logger,
	}

	// The callback runs under ci.mu, held by every mutating method.
	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(key string, value *FileDocs) {
		ci.dropUnsafe(key)
		if config.Debug {
			logger.Debug("LRU evicting file", "path", key, "component", value.Component.Name)
		}
	})
	if err != nil {
		// MaxCachedFiles is positive, so this cannot happen
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	ci.fileCache = cache

	logger.Debug("ComponentIndex initialized", "max_cached_files", config.MaxCachedFiles)
	return ci
}

// Add stores the component documented by filePath, replacing any previous
// result for the file. When two files document components with the same
// name, the last one added wins the name lookup.
func (ci *ComponentIndex) Add(filePath string, component *vuedoc.Component, contentHash string) *FileDocs {
	start := time.Now()
	defer func() {
		ci.totalIndexTime.Add(time.Since(start).Microseconds())
	}()

	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.removeUnsafe(filePath)

	docs := &FileDocs{
		FilePath:    filePath,
		Component:   component,
		Timestamp:   time.Now().UnixMilli(),
		ContentHash: contentHash,
	}

	ci.components[component.Name] = docs
	ci.fileToComponent[filePath] = component.Name
	if evicted := ci.fileCache.Add(filePath, docs); evicted {
		ci.evictions.Add(1)
	}
	delete(ci.dirtyFiles, filePath)
	ci.indexedFiles.Add(1)

	if ci.config.Debug {
		ci.logger.Debug("Indexed file", "path", filePath, "component", component.Name)
	}
	return docs
}

// Get retrieves a component by name.
func (ci *ComponentIndex) Get(name string) (*FileDocs, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	docs, found := ci.components[name]
	return docs, found
}

// GetFile retrieves the documentation of a file.
func (ci *ComponentIndex) GetFile(filePath string) (*FileDocs, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	docs, found := ci.fileCache.Get(filePath)
	if found {
		ci.cacheHits.Add(1)
	} else {
		ci.cacheMisses.Add(1)
	}
	return docs, found
}

// All returns every indexed component sorted by name, then path.
func (ci *ComponentIndex) All() []*FileDocs {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	result := make([]*FileDocs, 0, ci.fileCache.Len())
	for _, key := range ci.fileCache.Keys() {
		if docs, ok := ci.fileCache.Peek(key); ok {
			result = append(result, docs)
		}
	}
	sortDocs(result)
	return result
}

// Find returns the components matching predicate, sorted like All.
func (ci *ComponentIndex) Find(predicate func(*vuedoc.Component) bool) []*FileDocs {
	var result []*FileDocs
	for _, docs := range ci.All() {
		if predicate(docs.Component) {
			result = append(result, docs)
		}
	}
	return result
}

// Search returns the components whose name or description contains query,
// case-insensitively.
func (ci *ComponentIndex) Search(query string) []*FileDocs {
	q := strings.ToLower(strings.TrimSpace(query))
	return ci.Find(func(c *vuedoc.Component) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Description), q)
	})
}

// InvalidateFile marks a file as dirty without removing its component.
// The next Add for the file clears the flag.
func (ci *ComponentIndex) InvalidateFile(filePath string) {
	ci.mu.Lock()
	ci.dirtyFiles[filePath] = true
	ci.mu.Unlock()

	if ci.config.Debug {
		ci.logger.Debug("Invalidated file", "path", filePath)
	}
}

// IsDirty checks if a file is marked for recomputation.
func (ci *ComponentIndex) IsDirty(filePath string) bool {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	return ci.dirtyFiles[filePath]
}

// RemoveFile removes a file and its component from the index.
func (ci *ComponentIndex) RemoveFile(filePath string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.removeUnsafe(filePath)
	delete(ci.dirtyFiles, filePath)
}

// removeUnsafe must be called with mu held.
func (ci *ComponentIndex) removeUnsafe(filePath string) {
	if _, ok := ci.fileToComponent[filePath]; !ok {
		return
	}
	ci.dropUnsafe(filePath)
	ci.fileCache.Remove(filePath)
}

// dropUnsafe clears the name and reverse entries of a file. It must be
// called with mu held.
func (ci *ComponentIndex) dropUnsafe(filePath string) {
	name, ok := ci.fileToComponent[filePath]
	if !ok {
		return
	}
	if docs, ok := ci.components[name]; ok && docs.FilePath == filePath {
		delete(ci.components, name)
	}
	delete(ci.fileToComponent, filePath)
}

// GetStats returns current index statistics.
func (ci *ComponentIndex) GetStats() IndexStats {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	hits := ci.cacheHits.Load()
	misses := ci.cacheMisses.Load()
	indexed := ci.indexedFiles.Load()

	stats := IndexStats{
		IndexedFiles: int(indexed),
		Components:   len(ci.components),
		CachedFiles:  ci.fileCache.Len(),
		DirtyFiles:   len(ci.dirtyFiles),
		CacheHits:    hits,
		CacheMisses:  misses,
		Evictions:    ci.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.CacheHitRate = float64(hits) / float64(total)
	}
	if indexed > 0 {
		stats.AverageIndexTimeMs = float64(ci.totalIndexTime.Load()) / float64(indexed) / 1000.0
	}
	return stats
}

// Close clears the index.
func (ci *ComponentIndex) Close() {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.components = make(map[string]*FileDocs)
	ci.fileToComponent = make(map[string]string)
	ci.dirtyFiles = make(map[string]bool)
	ci.fileCache.Purge()
}

// ComputeContentHash returns the hex SHA-256 of content.
func ComputeContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func sortDocs(docs []*FileDocs) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Component.Name != docs[j].Component.Name {
			return docs[i].Component.Name < docs[j].Component.Name
		}
		return docs[i].FilePath < docs[j].FilePath
	})
}
