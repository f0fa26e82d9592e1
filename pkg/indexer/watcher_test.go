package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/util"
)

type eventLog struct {
	mu     sync.Mutex
	events []WatchEvent
}

func (l *eventLog) add(ev WatchEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) find(pred func(WatchEvent) bool) (WatchEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if pred(ev) {
			return ev, true
		}
	}
	return WatchEvent{}, false
}

func startWatcher(t *testing.T, f fixture, root string) (*FileWatcher, *eventLog) {
	t.Helper()
	opts := DefaultWatchOptions()
	opts.DebounceMs = 20

	watcher, err := NewFileWatcher(f.parser, f.files, f.index, opts, util.Discard())
	require.NoError(t, err)

	log := &eventLog{}
	watcher.OnChange(log.add)
	require.NoError(t, watcher.Start(context.Background(), root))
	t.Cleanup(func() { watcher.Stop() })
	return watcher, log
}

func TestFileWatcher_ReparsesChangedFile(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()
	path := writeFile(t, tmp, "Button.vue", buttonVue)

	watcher, log := startWatcher(t, f, tmp)
	assert.True(t, watcher.GetStats().IsRunning)

	updated := strings.Replace(buttonVue, "'XButton'", "'BaseButton'", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		_, found := f.index.Get("BaseButton")
		return found
	}, 5*time.Second, 20*time.Millisecond)

	ev, ok := log.find(func(ev WatchEvent) bool { return ev.Component != nil })
	require.True(t, ok)
	assert.Equal(t, path, ev.FilePath)
	assert.Equal(t, "BaseButton", ev.Component.Name)
	assert.NoError(t, ev.Err)
	assert.False(t, f.index.IsDirty(path))
}

func TestFileWatcher_NewDirectoryAndRemoval(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()
	_, log := startWatcher(t, f, tmp)

	dir := filepath.Join(tmp, "forms")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// give the watcher time to add the new directory
	time.Sleep(100 * time.Millisecond)
	path := writeFile(t, dir, "Input.vue", buttonVue)

	require.Eventually(t, func() bool {
		_, found := f.index.GetFile(path)
		return found
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, found := f.index.Get("XButton")
		return !found
	}, 5*time.Second, 20*time.Millisecond)

	_, ok := log.find(func(ev WatchEvent) bool { return ev.FilePath == path && ev.Component == nil && ev.Err == nil })
	assert.True(t, ok, "removal should be reported")
}

func TestFileWatcher_IgnoresExcludedFiles(t *testing.T) {
	f := newFixture(t)
	tmp := t.TempDir()
	_, log := startWatcher(t, f, tmp)

	writeFile(t, tmp, "notes.md", "# notes")
	writeFile(t, tmp, "Button.vue.swp", "swap")
	path := writeFile(t, tmp, "Button.vue", buttonVue)

	require.Eventually(t, func() bool {
		_, found := f.index.GetFile(path)
		return found
	}, 5*time.Second, 20*time.Millisecond)

	_, ok := log.find(func(ev WatchEvent) bool { return filepath.Ext(ev.FilePath) != ".vue" })
	assert.False(t, ok)
}

func TestFileWatcher_Lifecycle(t *testing.T) {
	f := newFixture(t)

	watcher, err := NewFileWatcher(f.parser, f.files, f.index, DefaultWatchOptions(), util.Discard())
	require.NoError(t, err)
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
	assert.Error(t, watcher.Start(context.Background(), t.TempDir()))

	_, err = NewFileWatcher(f.parser, f.files, f.index, WatchOptions{Include: []string{"[x"}}, util.Discard())
	assert.Error(t, err)
}
