package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// EventExtractor finds emit calls in a subtree.
type EventExtractor struct {
	ctx *Context
}

// NewEventExtractor returns an event extractor bound to ctx.
func NewEventExtractor(ctx *Context) *EventExtractor {
	return &EventExtractor{ctx: ctx}
}

// Extract walks n depth first and emits one EventEntry per named emit call.
// Functions and blocks get their own scope frame.
func (e *EventExtractor) Extract(n *ts.Node, s *scope.Scope) error {
	if n == nil || !e.ctx.Enabled(entry.KindEvent) {
		return nil
	}
	e.walk(n, s)
	return nil
}

func (e *EventExtractor) walk(n *ts.Node, s *scope.Scope) {
	switch {
	case isFunction(n):
		s = e.ctx.functionScope(n, s)
	case n.Kind() == kindBlock && !isFunction(n.Parent()):
		s = s.Child()
		e.ctx.bindDeclarations(n, s)
	case n.Kind() == kindCall && isEmitCallee(n.ChildByFieldName("function"), e.ctx.Source):
		e.event(n, s)
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			e.walk(child, s)
		}
	}
}

// isEmitCallee matches this.$emit(...), $emit(...), emit(...) and
// context.emit(...) / ctx.emit(...).
func isEmitCallee(callee *ts.Node, source []byte) bool {
	callee = unwrap(callee)
	if callee == nil {
		return false
	}
	switch callee.Kind() {
	case kindIdentifier:
		name := text(callee, source)
		return name == "$emit" || name == "emit"
	case kindMember:
		switch text(callee.ChildByFieldName("property"), source) {
		case "$emit":
			return true
		case "emit":
			obj := text(callee.ChildByFieldName("object"), source)
			return obj == "context" || obj == "ctx"
		}
	}
	return false
}

func (e *EventExtractor) event(call *ts.Node, s *scope.Scope) {
	ctx := e.ctx
	args := namedChildren(call.ChildByFieldName("arguments"))
	if len(args) == 0 {
		return
	}

	name := ""
	if v, ok := ctx.Resolve(args[0], s).(entry.String); ok {
		name = string(v)
	}

	arguments := make([]entry.Argument, 0, len(args)-1)
	for _, arg := range args[1:] {
		arguments = append(arguments, ctx.argument(arg, s))
	}

	event := entry.NewEvent(name, arguments)
	block := ctx.comment(enclosingStatement(call))
	ctx.describe(event, block)
	event.Arguments = mergeArgumentTags(event.Arguments, paramTags(block, jsdoc.TagArg, jsdoc.TagArgument, jsdoc.TagParam))

	if event.Name == "" {
		ctx.diagnose(LevelError, call, "Missing keyword value for @event")
		return
	}
	ctx.emit(event)
}

// argument maps an emitted value to an Argument record.
func (c *Context) argument(n *ts.Node, s *scope.Scope) entry.Argument {
	switch n.Kind() {
	case kindIdentifier:
		arg := entry.Argument{Name: c.text(n), Type: entry.NewType("any")}
		if t := entry.TypeOf(c.Resolve(n, s)); t != "any" {
			arg.Type = entry.NewType(t)
		}
		return arg

	case kindSpread:
		inner := firstNamed(n)
		return entry.Argument{
			Name:        c.text(inner),
			Type:        entry.NewType("any"),
			Rest:        true,
			Declaration: c.text(n),
		}

	case "assignment_expression", "assignment_pattern":
		left := n.ChildByFieldName("left")
		v := c.Resolve(n.ChildByFieldName("right"), s)
		return entry.Argument{Name: c.text(left), Type: entry.NewType(entry.TypeOf(v))}

	case "object_pattern", kindObject:
		v := c.Resolve(n, s)
		if _, ok := v.(entry.Object); ok {
			return entry.Argument{Name: c.text(n), Type: entry.NewType("object")}
		}
		return entry.Argument{Name: "object", Type: entry.NewType("object"), Declaration: c.text(n)}
	}

	v := c.Resolve(n, s)
	return entry.Argument{Name: c.renderDefault(v, n), Type: entry.NewType(entry.TypeOf(v))}
}

// mergeArgumentTags applies @arg tags to event arguments with the same rule
// as method parameters.
func mergeArgumentTags(args []entry.Argument, tags []jsdoc.ParamTag) []entry.Argument {
	if len(tags) == 0 {
		return args
	}

	params := make([]entry.Param, len(args))
	for i, a := range args {
		params[i] = entry.Param{Name: a.Name, Type: a.Type, Description: a.Description, Rest: a.Rest, Declaration: a.Declaration}
	}
	params = mergeParamTags(params, tags)

	out := make([]entry.Argument, len(params))
	for i, p := range params {
		out[i] = entry.Argument{Name: p.Name, Type: p.Type, Description: p.Description, Rest: p.Rest, Declaration: p.Declaration}
	}
	return out
}

// Declared documents the events listed in an emits option: an array of
// names or an object keyed by name.
func (e *EventExtractor) Declared(n *ts.Node, s *scope.Scope) error {
	ctx := e.ctx
	if !ctx.Enabled(entry.KindEvent) {
		return nil
	}
	n = unwrap(n)
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case kindArray:
		for _, el := range namedChildren(n) {
			v, ok := ctx.Resolve(el, s).(entry.String)
			if !ok {
				ctx.diagnose(LevelWarning, el, "emits entry is not a static string")
				continue
			}
			event := entry.NewEvent(string(v), nil)
			ctx.describe(event, ctx.comment(el))
			ctx.emit(event)
		}

	case kindObject:
		for _, member := range members(n) {
			switch member.Kind() {
			case kindComment, kindSpread:
				continue
			case kindPair, kindMethodDef, kindShorthand:
			default:
				return ctx.unsupported(member, "emits")
			}
			event := entry.NewEvent(ctx.memberName(member, s), nil)
			ctx.describe(event, ctx.comment(member))
			ctx.emit(event)
		}

	default:
		ctx.diagnose(LevelWarning, n, "emits option is neither an array nor an object literal")
	}
	return nil
}
