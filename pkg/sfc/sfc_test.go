package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkbox = `<template>
  <label>
    <template v-if="label">
      <slot name="label">{{ label }}</slot>
    </template>
  </label>
</template>

<script setup>
const x = 1
</script>

<script lang="ts">
export default { name: 'checkbox' }
</script>

<style scoped>
label { color: red }
</style>

<docs>
# Checkbox
</docs>
`

func TestSplit(t *testing.T) {
	desc, err := Split([]byte(checkbox))
	require.NoError(t, err)

	require.NotNil(t, desc.Template)
	assert.Equal(t, uint(1), desc.Template.Line)
	assert.Contains(t, string(desc.Template.Content), `<template v-if="label">`)
	assert.Contains(t, string(desc.Template.Content), `</template>`)
	assert.NotContains(t, string(desc.Template.Content), "<script")

	require.NotNil(t, desc.Script)
	assert.Equal(t, "ts", desc.Script.Lang)
	assert.Equal(t, "\nexport default { name: 'checkbox' }\n", string(desc.Script.Content))
	assert.Equal(t, uint(13), desc.Script.Line)
	assert.Equal(t, checkbox[desc.Script.Start:desc.Script.End], string(desc.Script.Content))

	require.NotNil(t, desc.ScriptSetup)
	assert.True(t, desc.ScriptSetup.Setup())
	assert.Equal(t, "\nconst x = 1\n", string(desc.ScriptSetup.Content))

	require.Len(t, desc.Styles, 1)
	assert.Contains(t, desc.Styles[0].Attrs, "scoped")

	require.Len(t, desc.Custom, 1)
	assert.Equal(t, "docs", desc.Custom[0].Type)
}

func TestSplitUnterminated(t *testing.T) {
	desc, err := Split([]byte("<script>\nexport default {}\n"))
	require.NoError(t, err)
	require.NotNil(t, desc.Script)
	assert.Equal(t, "\nexport default {}\n", string(desc.Script.Content))
	assert.Nil(t, desc.Template)
}

func TestSplitEmpty(t *testing.T) {
	desc, err := Split(nil)
	require.NoError(t, err)
	assert.Nil(t, desc.Script)
	assert.Nil(t, desc.Template)
}

func TestMasked(t *testing.T) {
	source := []byte("<template>\n</template>\n<script>\nexport default {}\n</script>\n")
	desc, err := Split(source)
	require.NoError(t, err)

	masked := desc.Script.Masked(source)
	require.Len(t, masked, len(source))
	assert.Equal(t, "          \n           \n        \nexport default {}\n         \n", string(masked))
}
