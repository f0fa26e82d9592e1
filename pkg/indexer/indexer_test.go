package indexer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

func testComponent(name, description string) *vuedoc.Component {
	return &vuedoc.Component{Name: name, Description: description}
}

func newTestIndex(t *testing.T, config IndexConfig) *ComponentIndex {
	t.Helper()
	index := NewComponentIndex(config, util.Discard())
	t.Cleanup(index.Close)
	return index
}

func TestComponentIndex_AddAndGet(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	docs := index.Add("/app/Button.vue", testComponent("XButton", "A button"), "abc")
	require.NotNil(t, docs)
	assert.Equal(t, "/app/Button.vue", docs.FilePath)
	assert.Equal(t, "abc", docs.ContentHash)
	assert.Greater(t, docs.Timestamp, int64(0))

	got, found := index.Get("XButton")
	require.True(t, found)
	assert.Same(t, docs, got)

	byFile, found := index.GetFile("/app/Button.vue")
	require.True(t, found)
	assert.Same(t, docs, byFile)

	_, found = index.GetFile("/app/Missing.vue")
	assert.False(t, found)

	stats := index.GetStats()
	assert.Equal(t, 1, stats.Components)
	assert.Equal(t, 1, stats.CachedFiles)
	assert.Equal(t, 1, stats.IndexedFiles)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.InDelta(t, 0.5, stats.CacheHitRate, 0.001)
}

func TestComponentIndex_ReplaceFile(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	index.Add("/app/Button.vue", testComponent("XButton", ""), "v1")
	index.Add("/app/Button.vue", testComponent("BaseButton", ""), "v2")

	_, found := index.Get("XButton")
	assert.False(t, found, "renamed component should drop the old name")

	docs, found := index.Get("BaseButton")
	require.True(t, found)
	assert.Equal(t, "v2", docs.ContentHash)
	assert.Equal(t, 1, index.GetStats().Components)
}

func TestComponentIndex_All(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	index.Add("/app/c.vue", testComponent("Card", ""), "")
	index.Add("/app/a.vue", testComponent("Alert", ""), "")
	index.Add("/app/b.vue", testComponent("Badge", ""), "")

	var names []string
	for _, docs := range index.All() {
		names = append(names, docs.Component.Name)
	}
	assert.Equal(t, []string{"Alert", "Badge", "Card"}, names)
}

func TestComponentIndex_Search(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	index.Add("/app/Button.vue", testComponent("XButton", "Clickable action"), "")
	index.Add("/app/Input.vue", testComponent("TextInput", "Single line text field"), "")

	results := index.Search("button")
	require.Len(t, results, 1)
	assert.Equal(t, "XButton", results[0].Component.Name)

	results = index.Search("TEXT")
	require.Len(t, results, 1)
	assert.Equal(t, "TextInput", results[0].Component.Name)

	assert.Len(t, index.Search(""), 2)
	assert.Empty(t, index.Search("table"))
}

func TestComponentIndex_InvalidateAndRemove(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())
	index.Add("/app/Button.vue", testComponent("XButton", ""), "")

	index.InvalidateFile("/app/Button.vue")
	assert.True(t, index.IsDirty("/app/Button.vue"))
	_, found := index.Get("XButton")
	assert.True(t, found, "invalidation keeps the component")
	assert.Equal(t, 1, index.GetStats().DirtyFiles)

	index.Add("/app/Button.vue", testComponent("XButton", ""), "")
	assert.False(t, index.IsDirty("/app/Button.vue"))

	index.RemoveFile("/app/Button.vue")
	_, found = index.Get("XButton")
	assert.False(t, found)
	_, found = index.GetFile("/app/Button.vue")
	assert.False(t, found)
	assert.Equal(t, 0, index.GetStats().Components)
}

func TestComponentIndex_SameNameInTwoFiles(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	index.Add("/a/Button.vue", testComponent("XButton", "first"), "")
	index.Add("/b/Button.vue", testComponent("XButton", "second"), "")

	docs, found := index.Get("XButton")
	require.True(t, found)
	assert.Equal(t, "/b/Button.vue", docs.FilePath)

	// removing the shadowed file keeps the winning entry
	index.RemoveFile("/a/Button.vue")
	docs, found = index.Get("XButton")
	require.True(t, found)
	assert.Equal(t, "/b/Button.vue", docs.FilePath)
}

func TestComponentIndex_Eviction(t *testing.T) {
	index := newTestIndex(t, IndexConfig{MaxCachedFiles: 2})

	index.Add("/app/a.vue", testComponent("A", ""), "")
	index.Add("/app/b.vue", testComponent("B", ""), "")
	index.Add("/app/c.vue", testComponent("C", ""), "")

	_, found := index.Get("A")
	assert.False(t, found, "evicted file should leave the name index")

	stats := index.GetStats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.CachedFiles)
	assert.Equal(t, 2, stats.Components)
	assert.Equal(t, 3, stats.IndexedFiles)
}

func TestComponentIndex_Concurrent(t *testing.T) {
	index := newTestIndex(t, DefaultIndexConfig())

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				name := fmt.Sprintf("C%d_%d", g, i)
				index.Add("/app/"+name+".vue", testComponent(name, ""), "")
				index.Get(name)
				index.Search("c")
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 200, index.GetStats().Components)
}

func TestComputeContentHash(t *testing.T) {
	a := ComputeContentHash([]byte("<template />"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, ComputeContentHash([]byte("<template />")))
	assert.NotEqual(t, a, ComputeContentHash([]byte("<template></template>")))
}
