package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sfcdoc/pkg/entry"
)

func propsByName(r result) map[string]*entry.PropEntry {
	out := map[string]*entry.PropEntry{}
	for _, p := range entriesOf[*entry.PropEntry](r) {
		out[p.Name] = p
	}
	return out
}

func TestPropsObject(t *testing.T) {
	r := extract(t, `
export default {
  model: {
    prop: 'checked',
    event: 'change',
  },
  props: {
    /** Size of the button */
    size: [String, Number],
    checked: Boolean,
    disabled: { type: Boolean, default: false },
    items: { type: Array, default: () => [] },
    config: { type: Object, default() { return {} } },
    hidden: { type: Boolean, default: !(a || b || c) },
    maxLength: { type: Number, required: true },
    anything: {},
    nothing: null,
    /**
     * @type {'sm' | 'lg'}
     * @default 'sm'
     */
    variant: String,
  },
}`)

	props := entriesOf[*entry.PropEntry](r)
	assert.Equal(t, []string{"size", "checked", "disabled", "items", "config", "hidden", "max-length", "anything", "nothing", "variant"}, names(props))

	byName := propsByName(r)
	assert.Equal(t, entry.NewType("String", "Number"), byName["size"].Type)
	assert.Equal(t, "Size of the button", byName["size"].Description)

	assert.True(t, byName["checked"].DescribeModel)
	assert.False(t, byName["size"].DescribeModel)

	assert.Equal(t, entry.Bool(false), byName["disabled"].Default)
	assert.Equal(t, entry.Raw("() => []"), byName["items"].Default)
	assert.Equal(t, entry.Raw("function() { return {} }"), byName["config"].Default)
	assert.Equal(t, entry.Raw("!(a || b || c)"), byName["hidden"].Default)

	assert.True(t, byName["max-length"].Required)
	assert.Nil(t, byName["max-length"].Default)

	assert.Equal(t, entry.NewType("any"), byName["anything"].Type)
	assert.Equal(t, entry.NewType("any"), byName["nothing"].Type)

	assert.Equal(t, entry.NewType("'sm'", "'lg'"), byName["variant"].Type)
	assert.Equal(t, entry.Raw("'sm'"), byName["variant"].Default)

	models := entriesOf[*entry.ModelEntry](r)
	require.Len(t, models, 1)
	assert.Equal(t, "checked", models[0].Prop)
	assert.Equal(t, "change", models[0].Event)
}

func TestPropsArray(t *testing.T) {
	r := extract(t, `
export default {
  props: [
    // The bound value
    'value',
    'isOpen',
  ],
}`)

	props := entriesOf[*entry.PropEntry](r)
	require.Len(t, props, 2)
	assert.Equal(t, "value", props[0].Name)
	assert.Equal(t, "The bound value", props[0].Description)
	assert.True(t, props[0].DescribeModel)
	assert.Equal(t, "is-open", props[1].Name)
	assert.Equal(t, entry.NewType("any"), props[1].Type)
}

func TestPropUnknownValueIsDiagnostic(t *testing.T) {
	r := extract(t, `
export default {
  props: {
    value: makeProp(String),
  },
}`)

	props := entriesOf[*entry.PropEntry](r)
	require.Len(t, props, 1)
	assert.Equal(t, entry.NewType("any"), props[0].Type)

	diags := r.ctx.Channel.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, LevelWarning, diags[0].Level)
}

func TestPropModelTag(t *testing.T) {
	r := run(t, `
export default {
  props: {
    /** @model */
    modelValue: { type: String as PropType<'a' | 'b'>, default: 'a' },
  },
}`, "ts", "", DefaultOptions())
	require.NoError(t, r.err)

	props := entriesOf[*entry.PropEntry](r)
	require.Len(t, props, 1)
	assert.Equal(t, "model-value", props[0].Name)
	assert.True(t, props[0].DescribeModel)
	assert.Equal(t, entry.NewType("'a'", "'b'"), props[0].Type)
	assert.Equal(t, entry.String("a"), props[0].Default)
}

func TestModelDisabledStillFlagsProp(t *testing.T) {
	opts := Options{Features: []entry.Kind{entry.KindProp}}
	r := run(t, `
export default {
  props: ['checked'],
  model: { prop: 'checked' },
}`, "", "", opts)
	require.NoError(t, r.err)

	assert.Empty(t, entriesOf[*entry.ModelEntry](r))
	props := entriesOf[*entry.PropEntry](r)
	require.Len(t, props, 1)
	assert.True(t, props[0].DescribeModel)
}

func TestModelDisabledReportsNothing(t *testing.T) {
	for _, features := range [][]entry.Kind{{entry.KindData}, {entry.KindProp}} {
		r := run(t, "export default { model: MODEL }", "", "", Options{Features: features})
		require.NoError(t, r.err)

		assert.Empty(t, r.ctx.Channel.Diagnostics(), "features %v", features)
		assert.Empty(t, r.ctx.Channel.Entries(), "features %v", features)
	}

	r := run(t, "export default { model: MODEL }", "", "", Options{Features: []entry.Kind{entry.KindModel}})
	require.NoError(t, r.err)
	require.Len(t, r.ctx.Channel.Diagnostics(), 1)
	assert.Equal(t, "model option is not a static object literal", r.ctx.Channel.Diagnostics()[0].Message)
}
