package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/indexer"
	"github.com/gnana997/sfcdoc/pkg/mcplog"
	"github.com/gnana997/sfcdoc/pkg/util"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// --- helpers ---

const buttonVue = `<template>
  <button @click="$emit('click')"><slot /></button>
</template>

<script>
/**
 * A clickable button
 * @category actions
 */
export default {
  name: 'XButton',
  props: {
    disabled: Boolean
  }
}
</script>
`

const inputVue = `<template>
  <label><slot name="label" /><input /></label>
</template>

<script>
/**
 * Single line text field
 * @category forms
 */
export default {
  name: 'TextInput',
  props: ['placeholder'],
  methods: {
    /**
     * Focus the field
     * @public
     */
    focus() {}
  }
}
</script>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testServer(t *testing.T, callLog *mcplog.Logger) (*Server, string) {
	t.Helper()
	logger := util.Discard()
	root := t.TempDir()
	writeFile(t, root, "Button.vue", buttonVue)
	writeFile(t, root, "forms/TextInput.vue", inputVue)

	parser, err := vuedoc.New(vuedoc.DefaultOptions(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { parser.Close() })

	config := util.DefaultFileCacheConfig()
	config.Logger = logger
	files := util.NewFileCache(config)
	t.Cleanup(func() { files.Close() })

	index := indexer.NewComponentIndex(indexer.DefaultIndexConfig(), logger)
	t.Cleanup(index.Close)

	scanner := indexer.NewWorkspaceScanner(parser, files, index, logger)
	return NewServer(parser, files, scanner, Config{Root: root, CallLog: callLog, Logger: logger}), root
}

func makeRequest(tool string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: tool, Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), v))
}

func scan(t *testing.T, s *Server) scanResult {
	t.Helper()
	result, err := s.handleScanComponents(context.Background(), makeRequest("scan_components", nil))
	require.NoError(t, err)
	var out scanResult
	resultJSON(t, result, &out)
	return out
}

// --- parse_component ---

func TestParseComponent_Content(t *testing.T) {
	s, _ := testServer(t, nil)

	result, err := s.handleParseComponent(context.Background(), makeRequest("parse_component", map[string]any{
		"content": buttonVue,
	}))
	require.NoError(t, err)

	var comp map[string]any
	resultJSON(t, result, &comp)
	assert.Equal(t, "XButton", comp["name"])
	assert.Equal(t, "A clickable button", comp["description"])
	assert.Equal(t, "actions", comp["category"])

	props := comp["props"].([]any)
	require.Len(t, props, 1)
	assert.Equal(t, "disabled", props[0].(map[string]any)["name"])

	slots := comp["slots"].([]any)
	require.Len(t, slots, 1)
	assert.Equal(t, "default", slots[0].(map[string]any)["name"])

	assert.Empty(t, s.index.All(), "inline sources are not indexed")
}

func TestParseComponent_Path(t *testing.T) {
	s, root := testServer(t, nil)

	result, err := s.handleParseComponent(context.Background(), makeRequest("parse_component", map[string]any{
		"path": "forms/TextInput.vue",
	}))
	require.NoError(t, err)

	var comp vuedoc.Component
	resultJSON(t, result, &comp)
	assert.Equal(t, "TextInput", comp.Name)
	assert.Equal(t, filepath.Join(root, "forms", "TextInput.vue"), comp.Path)
	require.Len(t, comp.Methods, 1)
	assert.Equal(t, "focus", comp.Methods[0].Name)

	docs, found := s.index.Get("TextInput")
	require.True(t, found)
	assert.NotEmpty(t, docs.ContentHash)
}

func TestParseComponent_Errors(t *testing.T) {
	s, _ := testServer(t, nil)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "no arguments", args: nil, want: "path or content is required"},
		{name: "missing file", args: map[string]any{"path": "Missing.vue"}, want: "failed to read Missing.vue"},
		{name: "unsupported language", args: map[string]any{"content": `<script lang="coffee">x = 1</script>`}, want: "unsupported script language"},
		{name: "no blocks", args: map[string]any{"content": "<style>a {}</style>"}, want: "no script or template block"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := s.handleParseComponent(context.Background(), makeRequest("parse_component", tc.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tc.want)
		})
	}
}

// --- scan_components ---

func TestScanComponents(t *testing.T) {
	s, root := testServer(t, nil)
	writeFile(t, root, "Broken.vue", `<script lang="coffee">x = 1</script>`)

	out := scan(t, s)
	assert.Equal(t, root, out.Root)
	assert.Equal(t, 3, out.FilesDiscovered)
	assert.Equal(t, 2, out.FilesIndexed)
	assert.Equal(t, 1, out.FilesFailed)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "Broken.vue", out.Failures[0].Path)
	assert.Contains(t, out.Failures[0].Error, "unsupported script language")

	assert.Len(t, s.index.All(), 2)
}

func TestScanComponents_Patterns(t *testing.T) {
	s, _ := testServer(t, nil)

	result, err := s.handleScanComponents(context.Background(), makeRequest("scan_components", map[string]any{
		"include": []any{"forms/**/*.vue"},
	}))
	require.NoError(t, err)
	var out scanResult
	resultJSON(t, result, &out)
	assert.Equal(t, 1, out.FilesIndexed)

	result, err = s.handleScanComponents(context.Background(), makeRequest("scan_components", map[string]any{
		"include": []any{"[invalid"},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "file discovery failed")
}

// --- list / get / search ---

func TestListComponents(t *testing.T) {
	s, _ := testServer(t, nil)
	scan(t, s)

	result, err := s.handleListComponents(context.Background(), makeRequest("list_components", nil))
	require.NoError(t, err)
	var all []componentSummary
	resultJSON(t, result, &all)
	require.Len(t, all, 2)
	assert.Equal(t, componentSummary{
		Name: "TextInput", Path: "forms/TextInput.vue", Description: "Single line text field",
		Category: "forms", Props: 1, Slots: 1,
	}, all[0])
	assert.Equal(t, "XButton", all[1].Name)

	result, err = s.handleListComponents(context.Background(), makeRequest("list_components", map[string]any{
		"category": "actions",
	}))
	require.NoError(t, err)
	var actions []componentSummary
	resultJSON(t, result, &actions)
	require.Len(t, actions, 1)
	assert.Equal(t, "XButton", actions[0].Name)

	result, err = s.handleListComponents(context.Background(), makeRequest("list_components", map[string]any{
		"keyword": "table",
	}))
	require.NoError(t, err)
	var none []componentSummary
	resultJSON(t, result, &none)
	assert.Empty(t, none)
}

func TestGetComponent(t *testing.T) {
	s, _ := testServer(t, nil)
	scan(t, s)

	result, err := s.handleGetComponent(context.Background(), makeRequest("get_component", map[string]any{
		"name": "XButton",
	}))
	require.NoError(t, err)
	var full vuedoc.Component
	resultJSON(t, result, &full)
	assert.Equal(t, "XButton", full.Name)
	require.Len(t, full.Slots, 1)
	assert.Equal(t, "default", full.Slots[0].Name)

	result, err = s.handleGetComponent(context.Background(), makeRequest("get_component", map[string]any{
		"name":    "forms/TextInput.vue",
		"summary": true,
	}))
	require.NoError(t, err)
	var summary map[string]any
	resultJSON(t, result, &summary)
	assert.Equal(t, "TextInput", summary["name"])
	assert.Equal(t, "forms/TextInput.vue", summary["path"])
	assert.Len(t, summary["methods"], 1)
}

func TestGetComponent_Errors(t *testing.T) {
	s, _ := testServer(t, nil)

	result, err := s.handleGetComponent(context.Background(), makeRequest("get_component", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleGetComponent(context.Background(), makeRequest("get_component", map[string]any{
		"name": "XButton",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "nothing is indexed before a scan")
	assert.Contains(t, resultText(t, result), "run scan_components first")
}

func TestSearchComponents(t *testing.T) {
	s, _ := testServer(t, nil)
	scan(t, s)

	result, err := s.handleSearchComponents(context.Background(), makeRequest("search_components", map[string]any{
		"query": "placeholder",
	}))
	require.NoError(t, err)
	var hits []searchHit
	resultJSON(t, result, &hits)
	require.Len(t, hits, 1)
	assert.Equal(t, searchHit{Name: "TextInput", Path: "forms/TextInput.vue", MatchReason: "prop:placeholder"}, hits[0])

	result, err = s.handleSearchComponents(context.Background(), makeRequest("search_components", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s, _ := testServer(t, callLog)
	handler := s.loggingMiddleware()(s.handleParseComponent)

	_, err = handler(context.Background(), makeRequest("parse_component", map[string]any{"content": buttonVue}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest("parse_component", nil))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []mcplog.LogEntry
	lines := bufio.NewScanner(f)
	for lines.Scan() {
		var e mcplog.LogEntry
		require.NoError(t, json.Unmarshal(lines.Bytes(), &e))
		entries = append(entries, e)
	}

	require.Len(t, entries, 2)
	assert.Equal(t, "parse_component", entries[0].Tool)
	assert.Equal(t, len(buttonVue), int(entries[0].Params["content_len"].(float64)))
	assert.Greater(t, entries[0].ResponseBytes, 0)
	assert.False(t, entries[0].IsError)
	assert.True(t, entries[1].IsError)
}
