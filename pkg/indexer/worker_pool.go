package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// FileJob represents a file to be processed by the worker pool.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult contains the documentation of a file.
type FileResult struct {
	FilePath    string
	Component   *vuedoc.Component
	ContentHash string
	JobID       int
}

// WorkerPool documents files on a pool of goroutines.
//
// **Architecture:**
//   - Buffered channel for job distribution
//   - Separate result and error channels
//   - Files are read through a shared util.FileCache
//   - Graceful shutdown support
//
// **Usage:**
//
//	pool := NewWorkerPool(0, parser, files, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	// Submit from one goroutine, collect from another
//	for _, file := range files {
//	    pool.Submit(FileJob{FilePath: file})
//	}
//	pool.FinishSubmitting()
//
//	for i := 0; i < len(files); i++ {
//	    select {
//	    case result := <-pool.Results():
//	        // Process result
//	    case err := <-pool.Errors():
//	        // Handle error
//	    }
//	}
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileResult
	errors     chan FileError
	wg         sync.WaitGroup
	parser     *vuedoc.Parser
	files      util.FileCache
	logger     *slog.Logger

	// Lifecycle management
	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	// Statistics
	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a new worker pool.
//
// Parameters:
//   - numWorkers: Number of worker goroutines (0 = util.GetOptimalPoolSize())
//   - parser: Parser documenting each file
//   - files: Cache the files are read through
//   - logger: Logger for worker messages
//
// The default worker count matches the parser pool size, so workers never
// wait on a parser.
func NewWorkerPool(numWorkers int, parser *vuedoc.Parser, files util.FileCache, logger *slog.Logger) *WorkerPool {
	numWorkers = util.GetOptimalPoolSizeWithOverride(numWorkers)
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		parser:     parser,
		files:      files,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns all worker goroutines. It must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("WorkerPool already started")
		return
	}

	wp.logger.Debug("Starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker processes jobs until the jobs channel is closed or the pool is
// cancelled.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("Worker cancelled", "worker_id", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	content, err := wp.files.Read(job.FilePath)
	if err != nil {
		wp.fail(job, fmt.Errorf("failed to read file: %w", err))
		return
	}

	component, err := wp.parser.Parse(wp.ctx, vuedoc.Source{Path: job.FilePath, Content: content})
	if err != nil {
		wp.logger.Debug("Parse error", "worker_id", workerID, "file", job.FilePath, "error", err)
		wp.fail(job, err)
		return
	}

	wp.jobsProcessed.Add(1)
	select {
	case wp.results <- FileResult{
		FilePath:    job.FilePath,
		Component:   component,
		ContentHash: ComputeContentHash(content),
		JobID:       job.JobID,
	}:
	case <-wp.ctx.Done():
	}
}

func (wp *WorkerPool) fail(job FileJob, err error) {
	wp.jobsFailed.Add(1)
	select {
	case wp.errors <- FileError{FilePath: job.FilePath, Error: err}:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job. It blocks while the jobs channel is full.
//
// **Thread Safety:** Safe for concurrent calls until FinishSubmitting.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit once it is
// drained.
//
// **Thread Safety:** Safe to call multiple times (idempotent).
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
		wp.logger.Debug("Jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
	}
}

// Cancel aborts queued and in-flight jobs. Results not yet delivered are
// dropped.
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// Wait blocks until all workers have finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts the pool down: no new jobs are accepted, workers finish and
// the result and error channels are closed.
//
// **Thread Safety:** Safe to call multiple times (idempotent).
//
// Results must be drained concurrently, or Cancel called first, otherwise
// workers blocked on a full results channel never finish.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}

	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
		ErrorsQueued:  len(wp.errors),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int // Current jobs in queue
	ResultsQueued int // Results waiting to be consumed
	ErrorsQueued  int // Errors waiting to be consumed
}
