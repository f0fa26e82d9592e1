package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// MethodExtractor documents the members of a methods object.
type MethodExtractor struct {
	ctx    *Context
	events *EventExtractor
}

// NewMethodExtractor returns a method extractor bound to ctx.
func NewMethodExtractor(ctx *Context) *MethodExtractor {
	return &MethodExtractor{ctx: ctx, events: NewEventExtractor(ctx)}
}

// Extract walks the methods object literal. When methods are disabled but
// events are not, only the nested emit scan runs.
func (m *MethodExtractor) Extract(obj *ts.Node, s *scope.Scope) error {
	methodsOn := m.ctx.Enabled(entry.KindMethod)
	if !methodsOn && !m.ctx.Enabled(entry.KindEvent) {
		return nil
	}
	obj = unwrap(obj)
	if obj == nil || obj.Kind() != kindObject {
		if obj != nil {
			m.ctx.diagnose(LevelWarning, obj, "methods option is not an object literal")
		}
		return nil
	}

	for _, member := range members(obj) {
		switch member.Kind() {
		case kindComment, kindSpread:
			continue
		case kindPair, kindMethodDef, kindShorthand:
		default:
			return m.ctx.unsupported(member, "methods")
		}

		fn := methodFunction(member)
		if methodsOn {
			m.method(member, fn, s)
		}
		if fn != nil {
			if err := m.events.Extract(fn, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// methodFunction returns the function node behind a method member: the
// method itself, a function value, or the first function argument of a
// wrapping call such as debounce(function () {}, 100).
func methodFunction(member *ts.Node) *ts.Node {
	switch member.Kind() {
	case kindMethodDef:
		return member
	case kindPair:
		value := unwrap(member.ChildByFieldName("value"))
		if isFunction(value) {
			return value
		}
		if value != nil && value.Kind() == kindCall {
			for _, arg := range namedChildren(value.ChildByFieldName("arguments")) {
				if isFunction(arg) {
					return arg
				}
			}
		}
	}
	return nil
}

func (m *MethodExtractor) method(member, fn *ts.Node, s *scope.Scope) {
	ctx := m.ctx
	name := ctx.memberName(member, s)

	var params []entry.Param
	if fn != nil {
		params = ctx.functionParams(fn, s)
	}

	method := entry.NewMethod(name, params)
	block := ctx.comment(member)
	ctx.describe(method, block)

	method.Params = mergeParamTags(method.Params, paramTags(block, jsdoc.TagParam, jsdoc.TagArg, jsdoc.TagArgument))
	method.Returns = ctx.methodReturns(fn, block, s)

	if syntax := block.All(jsdoc.TagSyntax); len(syntax) > 0 {
		for _, kw := range syntax {
			method.Syntax = append(method.Syntax, kw.Description)
		}
	} else {
		method.Syntax = []string{signature(method.Name, method.Params, method.Returns.Type)}
	}

	ctx.emit(method)
}

// memberName resolves the name of an object member. Computed keys go
// through the scope; an unresolvable computed key keeps its source text.
func (c *Context) memberName(member *ts.Node, s *scope.Scope) string {
	key := memberKey(member)
	name, computed := propertyKey(key, c.Source)
	if computed == nil {
		return name
	}
	if v := c.Resolve(computed, s); entry.IsStatic(v) {
		return entry.Text(v)
	}
	return c.text(computed)
}

// methodReturns resolves the return record: a typed @returns tag, then a
// TypeScript annotation, then inference from the body's return statements.
// A @returns tag without a type only supplies the description.
func (c *Context) methodReturns(fn *ts.Node, block jsdoc.Block, s *scope.Scope) entry.Returns {
	returns := entry.Returns{Type: entry.NewType("void")}

	var tag jsdoc.ReturnsTag
	kw, tagged := block.Find(jsdoc.TagReturns, jsdoc.TagReturn)
	if tagged {
		tag = jsdoc.ParseReturns(kw.Description)
		returns.Description = tag.Description
	}

	switch {
	case tagged && !tag.Type.IsZero():
		returns.Type = tag.Type
	case fn == nil:
		returns.Type = entry.NewType(entry.UnknownType)
	default:
		if typ := typeAnnotation(fn.ChildByFieldName("return_type"), c.Source); typ != "" {
			returns.Type = entry.NewType(typ)
		} else {
			returns.Type = entry.NewType(c.inferReturnType(fn, s))
		}
	}
	return returns
}

// inferReturnType inspects the top level return statements of fn, ignoring
// nested functions. No return gives void; returns that all resolve to
// literals of one type give that type; anything else is unknown.
func (c *Context) inferReturnType(fn *ts.Node, s *scope.Scope) string {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return "void"
	}

	fnScope := c.functionScope(fn, s)

	var values []*ts.Node
	if body.Kind() != kindBlock {
		values = append(values, body)
	} else {
		var returnsFound int
		walkReturns(body, func(ret *ts.Node) {
			returnsFound++
			values = append(values, firstNamed(ret))
		})
		if returnsFound == 0 {
			return "void"
		}
	}

	typ := ""
	for _, v := range values {
		if v == nil {
			return entry.UnknownType
		}
		t := entry.TypeOf(c.Resolve(v, fnScope))
		if t == "any" || (typ != "" && t != typ) {
			return entry.UnknownType
		}
		typ = t
	}
	return typ
}

func walkReturns(n *ts.Node, fn func(*ts.Node)) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || isFunction(child) || child.Kind() == "class_declaration" || child.Kind() == "class" {
			continue
		}
		if child.Kind() == kindReturn {
			fn(child)
			continue
		}
		walkReturns(child, fn)
	}
}
