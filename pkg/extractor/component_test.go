package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/entry"
)

func TestComponentMeta(t *testing.T) {
	r := extract(t, `
import Vue from 'vue'

/**
 * A plain button.
 * @author Jane
 */
export default {
  name: 'x-button',
  inheritAttrs: false,
}`)

	assert.Equal(t, "x-button", r.meta.Name)
	assert.Equal(t, "A plain button.", r.meta.Description)
	assert.False(t, r.meta.InheritAttrs)
	assert.Equal(t, []entry.Keyword{{Name: "author", Description: "Jane"}}, r.meta.Keywords)
}

func TestLocateComponent(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		wantName string
	}{
		{
			name:     "extend call",
			script:   `export default Vue.extend({ name: 'extended' })`,
			wantName: "extended",
		},
		{
			name: "reference",
			script: `const Button = defineComponent({ name: 'referenced' })
export default Button`,
			wantName: "referenced",
		},
		{
			name:     "commonjs",
			script:   `module.exports = { name: 'common' }`,
			wantName: "common",
		},
		{
			name: "name tag",
			script: `/** @name tagged */
export default {}`,
			wantName: "tagged",
		},
		{
			name: "mixin factory",
			script: `/**
 * Input behaviour.
 * @mixin
 */
export function InputMixin (Vue) {
  return Vue.extend({ props: ['value'] })
}`,
			wantName: "InputMixin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := extract(t, tt.script)
			assert.Equal(t, tt.wantName, r.meta.Name)
		})
	}
}

func TestFactoryWithoutMixinTagIsIgnored(t *testing.T) {
	r := extract(t, `
export function helper () {
  return { props: ['value'] }
}`)

	assert.Empty(t, r.meta.Name)
	assert.Empty(t, entriesOf[*entry.PropEntry](r))
}

func TestHooksAreScannedForEvents(t *testing.T) {
	r := extract(t, `
export default {
  mounted() {
    window.addEventListener('resize', () => this.$emit('resize'))
  },
  watch: {
    value(next) {
      this.$emit('change', next)
    },
  },
}`)

	assert.Equal(t, []string{"resize", "change"}, names(entriesOf[*entry.EventEntry](r)))
}

func TestDeterministicOutput(t *testing.T) {
	first := extract(t, eventsFixture)
	second := extract(t, eventsFixture)
	assert.Equal(t, first.ctx.Channel.Messages(), second.ctx.Channel.Messages())
}

func TestUnsupportedSyntaxFault(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		kind    string
		context string
		line    uint
	}{
		{
			name:    "broken method list",
			script:  "export default { methods: { a() {}, +, b() {} } }",
			kind:    "ERROR",
			context: "methods",
			line:    1,
		},
		{
			name:    "method in props",
			script:  "export default {\n  props: { b() {} },\n}",
			kind:    "method_definition",
			context: "props",
			line:    2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := run(t, tc.script, "", "", DefaultOptions())
			require.Error(t, r.err)

			var fault *UnsupportedSyntaxError
			require.True(t, errors.As(r.err, &fault))
			assert.Equal(t, tc.kind, fault.Kind)
			assert.Equal(t, tc.context, fault.Context)
			assert.Equal(t, tc.line, fault.Line)
			assert.Contains(t, r.err.Error(), "unsupported syntax: unexpected "+tc.kind+" in "+tc.context)
		})
	}
}
