package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/catalog"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

// --- helpers ---

const buttonVue = `<template>
  <button :disabled="disabled" @click="onClick">
    <!-- Button label -->
    <slot />
  </button>
</template>

<script>
/**
 * A clickable button
 * @category actions
 */
export default {
  name: 'XButton',
  props: {
    /**
     * Disables the button
     */
    disabled: { type: Boolean, default: false }
  },
  methods: {
    onClick(event) {
      /**
       * Emitted on click
       */
      this.$emit('click', event)
    }
  }
}
</script>
`

const badgeVue = `<template>
  <span class="badge"><slot name="icon" />{{ label }}</span>
</template>

<script>
export default {
  props: ['label']
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

// setupWorkspace creates a component tree and makes it the working directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "src/Button.vue", buttonVue)
	writeFile(t, dir, "src/Badge.vue", badgeVue)
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- version / init ---

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sfcdoc "+version+"\n", out)
}

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote .sfcdoc/config.yaml")
	assert.FileExists(t, defaultConfigPath)

	out, err = execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestGlobalFlags_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "", "parse", "--log-level", "loud", "x.vue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = execute(t, "", "--config", "missing.yaml", "parse", "x.vue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

// --- parse ---

func TestParse_JSON(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "parse", "src/Button.vue")
	require.NoError(t, err)

	var comp struct {
		Name     string
		Category string
		Props    []struct {
			Name        string
			Description string
			Default     any
		}
		Events []struct{ Name string }
		Slots  []struct{ Name, Description string }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &comp))
	assert.Equal(t, "XButton", comp.Name)
	assert.Equal(t, "actions", comp.Category)
	require.Len(t, comp.Props, 1)
	assert.Equal(t, "Disables the button", comp.Props[0].Description)
	assert.Equal(t, false, comp.Props[0].Default)
	require.Len(t, comp.Events, 1)
	assert.Equal(t, "click", comp.Events[0].Name)
	require.Len(t, comp.Slots, 1)
	assert.Equal(t, "Button label", comp.Slots[0].Description)
}

func TestParse_MultipleFiles(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "parse", "--features", "slot", "src/Button.vue", "src/Badge.vue")
	require.NoError(t, err)

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &comps))
	require.Len(t, comps, 2)
	assert.Equal(t, "Badge", comps[1]["name"], "name falls back to the file name")
	assert.Empty(t, comps[0]["props"], "props are disabled")
	assert.Len(t, comps[1]["slots"], 1)
}

func TestParse_Stdin(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, badgeVue, "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"label"`)
}

func TestParse_Text(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "parse", "--text", "src/Button.vue")
	require.NoError(t, err)
	assert.Contains(t, out, "XButton  [actions]")
	assert.Contains(t, out, "A clickable button")
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "Events\n  click(event")
	assert.Contains(t, out, "Emitted on click")
	assert.Contains(t, out, "Slots\n  default  Button label")
}

func TestParse_Errors(t *testing.T) {
	dir := setupWorkspace(t)
	writeFile(t, dir, "Broken.vue", `<script lang="coffee">x = 1</script>`)

	_, err := execute(t, "", "parse", "Missing.vue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read Missing.vue")

	_, err = execute(t, "", "parse", "Broken.vue")
	require.ErrorIs(t, err, vuedoc.ErrUnsupportedLang)

	_, err = execute(t, "", "parse", "--features", "widgets", "src/Button.vue")
	require.ErrorIs(t, err, vuedoc.ErrInvalidOptions)

	_, err = execute(t, "", "parse")
	assert.Error(t, err, "at least one file is required")
}

// --- scan / inspect ---

func TestScanAndInspect(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Documented 2 of 2 files")
	assert.Contains(t, out, "Catalog written to .sfcdoc/catalog.json")

	cat, _, err := catalog.LoadFromFile(filepath.Join(dir, ".sfcdoc", "catalog.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cat.Name)
	require.Len(t, cat.Components, 2)
	assert.Equal(t, "Badge", cat.Components[0].Name)
	assert.Equal(t, "src/Badge.vue", cat.Components[0].Path)
	assert.Equal(t, []catalog.Category{{Name: "actions", Components: []string{"XButton"}}}, cat.Categories)

	out, err = execute(t, "", "inspect")
	require.NoError(t, err)
	assert.Equal(t, "Badge    src/Badge.vue\nXButton  src/Button.vue\n", out)

	out, err = execute(t, "", "inspect", "xbutton")
	require.NoError(t, err)
	assert.Contains(t, out, "XButton  [actions]\n  src/Button.vue")

	_, err = execute(t, "", "inspect", "Table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `component "Table" not found`)
}

func TestScan_StdoutAndFlags(t *testing.T) {
	dir := setupWorkspace(t)
	writeFile(t, dir, "stories/Button.stories.vue", buttonVue)

	out, err := execute(t, "", "scan", "--output", "-", "--exclude", "stories/**", dir)
	require.NoError(t, err)

	cat, _, err := catalog.LoadFromBytes([]byte(out))
	require.NoError(t, err)
	assert.Len(t, cat.Components, 2)
	assert.NoFileExists(t, filepath.Join(dir, ".sfcdoc", "catalog.json"))

	out, err = execute(t, "", "scan", "--output", "-", "--include", "src/Badge.vue")
	require.NoError(t, err)
	cat, _, err = catalog.LoadFromBytes([]byte(out))
	require.NoError(t, err)
	require.Len(t, cat.Components, 1)
	assert.Equal(t, "Badge", cat.Components[0].Name)
}

func TestScan_ReportsFailures(t *testing.T) {
	dir := setupWorkspace(t)
	writeFile(t, dir, "src/Broken.vue", `<script lang="coffee">x = 1</script>`)

	out, err := execute(t, "", "scan", "-o", "out/catalog.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Documented 2 of 3 files")
	assert.Contains(t, out, "1 files failed:")
	assert.Contains(t, out, "Broken.vue: ")
	assert.FileExists(t, filepath.Join(dir, "out", "catalog.json"))
}
