package indexer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

type fixture struct {
	parser *vuedoc.Parser
	files  util.FileCache
	index  *ComponentIndex
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := util.Discard()

	parser, err := vuedoc.New(vuedoc.DefaultOptions(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { parser.Close() })

	config := util.DefaultFileCacheConfig()
	config.Logger = logger
	files := util.NewFileCache(config)
	t.Cleanup(func() { files.Close() })

	index := NewComponentIndex(DefaultIndexConfig(), logger)
	t.Cleanup(index.Close)

	return fixture{parser: parser, files: files, index: index}
}

func TestWorkerPool_Basic(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()

	good := writeFile(t, tmp, "Button.vue", buttonVue)
	missing := filepath.Join(tmp, "Missing.vue")

	pool := NewWorkerPool(2, f.parser, f.files, util.Discard())
	pool.Start()
	defer pool.Stop()

	require.NoError(t, pool.Submit(FileJob{FilePath: good, JobID: 0}))
	require.NoError(t, pool.Submit(FileJob{FilePath: missing, JobID: 1}))
	pool.FinishSubmitting()

	var results []FileResult
	var errs []FileError
	for i := 0; i < 2; i++ {
		select {
		case r := <-pool.Results():
			results = append(results, r)
		case e := <-pool.Errors():
			errs = append(errs, e)
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for worker pool")
		}
	}

	require.Len(t, results, 1)
	assert.Equal(t, good, results[0].FilePath)
	assert.Equal(t, "XButton", results[0].Component.Name)
	assert.Equal(t, ComputeContentHash([]byte(buttonVue)), results[0].ContentHash)

	require.Len(t, errs, 1)
	assert.Equal(t, missing, errs[0].FilePath)
	assert.Contains(t, errs[0].Error.Error(), "failed to read file")

	stats := pool.GetStats()
	assert.Equal(t, 2, stats.NumWorkers)
	assert.Equal(t, int64(2), stats.JobsSubmitted)
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsFailed)

	assert.Error(t, pool.Submit(FileJob{FilePath: good}), "submitting after FinishSubmitting fails")
}

func TestScanWorkspace(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()

	for i := 0; i < 12; i++ {
		writeFile(t, filepath.Join(tmp, "components"), fmt.Sprintf("Comp%02d.vue", i), fmt.Sprintf(`<script>
export default {
  name: 'Comp%02d',
  methods: { open() { this.$emit('open') } }
}
</script>
`, i))
	}
	writeFile(t, tmp, "Broken.vue", "<script lang=\"coffee\">x = 1</script>")

	var mu sync.Mutex
	var progress []int
	scanner := NewWorkspaceScanner(f.parser, f.files, f.index, util.Discard())
	stats, err := scanner.ScanWorkspace(context.Background(), tmp, DefaultScanOptions(), func(done, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 13, total)
		progress = append(progress, done)
	})
	require.NoError(t, err)

	assert.Equal(t, 13, stats.FilesDiscovered)
	assert.Equal(t, 12, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 24, stats.EntriesExtracted, "one method and one event per component")
	assert.False(t, stats.Cancelled)
	assert.InDelta(t, 12.0/13.0, stats.SuccessRate, 0.001)
	assert.Greater(t, stats.WorkerCount, 0)

	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "Broken.vue", filepath.Base(stats.Errors[0].FilePath))
	assert.ErrorIs(t, stats.Errors[0].Error, vuedoc.ErrUnsupportedLang)

	assert.Len(t, progress, 13)
	assert.Equal(t, 13, progress[len(progress)-1])

	all := scanner.Index().All()
	require.Len(t, all, 12)
	assert.Equal(t, "Comp00", all[0].Component.Name)
}

func TestScanWorkspace_NoFiles(t *testing.T) {
	f := newFixture(t)
	scanner := NewWorkspaceScanner(f.parser, f.files, f.index, util.Discard())

	stats, err := scanner.ScanWorkspace(context.Background(), t.TempDir(), DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesDiscovered)
	assert.Empty(t, stats.Errors)
}

func TestScanWorkspace_Cancelled(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, tmp, fmt.Sprintf("C%02d.vue", i), buttonVue)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewWorkspaceScanner(f.parser, f.files, f.index, util.Discard())
	stats, err := scanner.ScanWorkspace(ctx, tmp, ScanOptions{Include: []string{"*.vue"}, Workers: 2}, nil)
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	assert.LessOrEqual(t, stats.FilesIndexed+stats.FilesFailed, 50)
}

func TestScanWorkspace_InvalidPattern(t *testing.T) {
	f := newFixture(t)
	scanner := NewWorkspaceScanner(f.parser, f.files, f.index, util.Discard())

	_, err := scanner.ScanWorkspace(context.Background(), t.TempDir(), ScanOptions{Include: []string{"[x"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file discovery failed")
}
