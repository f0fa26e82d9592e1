package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// WorkspaceScanner documents every component of a workspace in parallel.
//
// **Pipeline:**
//  1. File Discovery - Walk the tree and find matching files
//  2. Parallel Processing - Document files on a worker pool
//  3. Indexing - Store results in the ComponentIndex
//
// **Usage:**
//
//	scanner := NewWorkspaceScanner(parser, files, index, logger)
//	stats, err := scanner.ScanWorkspace(ctx, "/path/to/app", DefaultScanOptions(),
//	    func(done, total int, file string) {
//	        fmt.Printf("Progress: %d/%d - %s\n", done, total, file)
//	    },
//	)
type WorkspaceScanner struct {
	parser *vuedoc.Parser
	files  util.FileCache
	index  *ComponentIndex
	logger *slog.Logger
}

// NewWorkspaceScanner creates a new workspace scanner.
func NewWorkspaceScanner(
	parser *vuedoc.Parser,
	files util.FileCache,
	index *ComponentIndex,
	logger *slog.Logger,
) *WorkspaceScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceScanner{
		parser: parser,
		files:  files,
		index:  index,
		logger: logger,
	}
}

// Index returns the index results are stored in.
func (ws *WorkspaceScanner) Index() *ComponentIndex {
	return ws.index
}

// ScanWorkspace documents every file under rootPath matching options.
//
// Per-file failures are recorded in the returned stats, not returned as an
// error. Cancelling ctx stops the scan early and marks the stats Cancelled.
func (ws *WorkspaceScanner) ScanWorkspace(
	ctx context.Context,
	rootPath string,
	options ScanOptions,
	progressCallback ProgressCallback,
) (*ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{
		StartTime: startTime,
		Errors:    make([]FileError, 0),
	}

	ws.logger.Info("Starting workspace scan", "root", rootPath)

	// Phase 1: Discover files
	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootPath, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ws.logger.Debug("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		ws.logger.Warn("No files found matching criteria", "root", rootPath)
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return stats, nil
	}

	// Phase 2 & 3: Process files in parallel and index
	indexingStart := time.Now()
	ws.processFilesParallel(ctx, files, options.Workers, stats, progressCallback)
	stats.IndexingTimeMs = time.Since(indexingStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	if stats.FilesIndexed > 0 && stats.IndexingTimeMs > 0 {
		stats.AverageFileTimeMs = float64(stats.IndexingTimeMs) / float64(stats.FilesIndexed)
		stats.FilesPerSecond = float64(stats.FilesIndexed) / (float64(stats.IndexingTimeMs) / 1000.0)
	}
	if stats.FilesDiscovered > 0 {
		stats.SuccessRate = float64(stats.FilesIndexed) / float64(stats.FilesDiscovered)
	}

	sort.Slice(stats.Errors, func(i, j int) bool {
		return stats.Errors[i].FilePath < stats.Errors[j].FilePath
	})

	ws.logger.Info("Workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"entries", stats.EntriesExtracted,
		"cancelled", stats.Cancelled,
		"duration_ms", stats.TotalTimeMs,
		"files_per_second", fmt.Sprintf("%.1f", stats.FilesPerSecond))

	return stats, nil
}

func (ws *WorkspaceScanner) processFilesParallel(
	ctx context.Context,
	files []string,
	workers int,
	stats *ScanStats,
	progressCallback ProgressCallback,
) {
	totalFiles := len(files)

	pool := NewWorkerPool(workers, ws.parser, ws.files, ws.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()
	defer pool.Stop()

	stopCancel := context.AfterFunc(ctx, pool.Cancel)
	defer stopCancel()

	// Submission runs beside the collector: it blocks once the jobs
	// channel fills up.
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i, file := range files {
			if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
				ws.logger.Debug("Submission stopped", "file", file, "error", err)
				break
			}
		}
		pool.FinishSubmitting()
		pool.Wait()
	}()

	processed := 0
	onResult := func(result FileResult) {
		ws.index.Add(result.FilePath, result.Component, result.ContentHash)

		stats.FilesIndexed++
		stats.EntriesExtracted += len(result.Component.Entries())
		stats.Diagnostics += len(result.Component.Errors) + len(result.Component.Warnings)
		processed++
		if progressCallback != nil {
			progressCallback(processed, totalFiles, result.FilePath)
		}
	}
	onError := func(fileErr FileError) {
		stats.Errors = append(stats.Errors, fileErr)
		stats.FilesFailed++
		ws.logger.Warn("File processing failed",
			"file", fileErr.FilePath,
			"error", fileErr.Error)

		processed++
		if progressCallback != nil {
			progressCallback(processed, totalFiles, fileErr.FilePath)
		}
	}

	for {
		select {
		case result := <-pool.Results():
			onResult(result)
		case fileErr := <-pool.Errors():
			onError(fileErr)
		case <-finished:
			// workers are done; drain what they buffered
			for {
				select {
				case result := <-pool.Results():
					onResult(result)
				case fileErr := <-pool.Errors():
					onError(fileErr)
				default:
					stats.Cancelled = ctx.Err() != nil
					return
				}
			}
		}
	}
}
