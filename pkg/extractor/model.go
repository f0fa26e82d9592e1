package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// ModelExtractor documents the model option.
type ModelExtractor struct {
	ctx *Context
}

// NewModelExtractor returns a model extractor bound to ctx.
func NewModelExtractor(ctx *Context) *ModelExtractor {
	return &ModelExtractor{ctx: ctx}
}

// Extract reads `model: { prop, event }` from the given option pair. The
// model prop is recorded on the context so the prop extractor can flag it;
// the ModelEntry and any diagnostic only appear when the kind is enabled.
func (m *ModelExtractor) Extract(pair *ts.Node, s *scope.Scope) error {
	ctx := m.ctx
	value := unwrap(pair.ChildByFieldName("value"))
	if value == nil {
		return nil
	}

	obj, ok := ctx.Resolve(value, s).(entry.Object)
	if !ok {
		if ctx.Enabled(entry.KindModel) {
			ctx.diagnose(LevelWarning, value, "model option is not a static object literal")
		}
		return nil
	}

	var prop, event string
	if v, ok := obj.Get("prop"); ok {
		if str, ok := v.(entry.String); ok {
			prop = string(str)
		}
	}
	if v, ok := obj.Get("event"); ok {
		if str, ok := v.(entry.String); ok {
			event = string(str)
		}
	}

	model := entry.NewModel(prop, event)
	ctx.ModelProp = model.Prop

	if !ctx.Enabled(entry.KindModel) {
		return nil
	}
	ctx.describe(model, ctx.comment(pair))
	ctx.emit(model)
	return nil
}
