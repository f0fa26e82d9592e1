package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// PropExtractor documents the props option.
type PropExtractor struct {
	ctx *Context
}

// NewPropExtractor returns a prop extractor bound to ctx.
func NewPropExtractor(ctx *Context) *PropExtractor {
	return &PropExtractor{ctx: ctx}
}

// Extract walks a props array or object literal.
func (p *PropExtractor) Extract(n *ts.Node, s *scope.Scope) error {
	ctx := p.ctx
	if !ctx.Enabled(entry.KindProp) {
		return nil
	}
	n = unwrap(n)
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case kindArray:
		for _, el := range namedChildren(n) {
			name, ok := ctx.Resolve(el, s).(entry.String)
			if !ok {
				ctx.diagnose(LevelWarning, el, "props entry is not a static string")
				continue
			}
			p.finish(entry.NewProp(kebabCase(string(name))), el)
		}

	case kindObject:
		for _, member := range members(n) {
			switch member.Kind() {
			case kindComment, kindSpread:
				continue
			case kindPair:
				prop := entry.NewProp(kebabCase(ctx.memberName(member, s)))
				p.fromNode(prop, member.ChildByFieldName("value"), s)
				p.finish(prop, member)
			case kindShorthand:
				prop := entry.NewProp(kebabCase(ctx.text(member)))
				p.fromValue(prop, ctx.Resolve(member, s))
				p.finish(prop, member)
			default:
				return ctx.unsupported(member, "props")
			}
		}

	case kindIdentifier, kindMember:
		v := ctx.Resolve(n, s)
		if _, ok := v.(entry.Array); !ok {
			ctx.diagnose(LevelWarning, n, "props option is not a static array or object literal")
			return nil
		}
		for _, el := range v.(entry.Array) {
			if name, ok := el.(entry.String); ok {
				p.finish(entry.NewProp(kebabCase(string(name))), nil)
			}
		}

	default:
		ctx.diagnose(LevelWarning, n, "props option is not an array or object literal")
	}
	return nil
}

// finish applies the documentation block preceding anchor and emits prop.
func (p *PropExtractor) finish(prop *entry.PropEntry, anchor *ts.Node) {
	ctx := p.ctx
	block := ctx.comment(anchor)
	ctx.describe(prop, block)

	if kw, ok := block.Find(jsdoc.TagType); ok {
		if typ := jsdoc.ParseType(kw.Description); !typ.IsZero() {
			prop.Type = typ
		}
	}
	if kw, ok := block.Find(jsdoc.TagDefault); ok {
		prop.Default = entry.Raw(kw.Description)
	}
	prop.DescribeModel = prop.Name == kebabCase(ctx.ModelProp) || block.Has(jsdoc.TagModel)

	ctx.emit(prop)
}

// fromNode reads a prop declaration written in place.
func (p *PropExtractor) fromNode(prop *entry.PropEntry, value *ts.Node, s *scope.Scope) {
	ctx := p.ctx
	if value == nil {
		return
	}
	if value.Kind() == "as_expression" {
		prop.Type = propTypeAssertion(value, ctx.Source)
		return
	}

	value = unwrap(value)
	switch value.Kind() {
	case kindIdentifier:
		if v, ok := s.Lookup(ctx.text(value)); ok {
			p.fromValue(prop, v)
			return
		}
		prop.Type = entry.NewType(ctx.text(value))
	case kindArray, kindMember, "null":
		prop.Type = p.typeOf(value)
	case kindObject:
		p.fromObject(prop, value, s)
	default:
		ctx.diagnose(LevelWarning, value, "unsupported prop declaration for "+prop.Name)
	}
}

func (p *PropExtractor) fromObject(prop *entry.PropEntry, obj *ts.Node, s *scope.Scope) {
	ctx := p.ctx
	for _, member := range namedChildren(obj) {
		switch member.Kind() {
		case kindPair:
			key, _ := propertyKey(member.ChildByFieldName("key"), ctx.Source)
			value := member.ChildByFieldName("value")
			switch key {
			case "type":
				if value.Kind() == "as_expression" {
					prop.Type = propTypeAssertion(value, ctx.Source)
				} else {
					prop.Type = p.typeOf(unwrap(value))
				}
			case "required":
				if b, ok := ctx.Resolve(value, s).(entry.Bool); ok {
					prop.Required = bool(b)
				}
			case "default":
				prop.Default = p.defaultValue(value, s)
			}

		case kindMethodDef:
			if name, _ := propertyKey(member.ChildByFieldName("name"), ctx.Source); name == "default" {
				prop.Default = entry.Raw("function" + ctx.text(member.ChildByFieldName("parameters")) + " " + ctx.text(member.ChildByFieldName("body")))
			}
		}
	}
}

func (p *PropExtractor) defaultValue(n *ts.Node, s *scope.Scope) entry.Value {
	if isFunction(unwrap(n)) {
		return entry.Raw(p.ctx.text(unwrap(n)))
	}
	v := p.ctx.Resolve(n, s)
	if _, undefined := v.(entry.Undefined); undefined {
		return nil
	}
	return v
}

// typeOf reads a type option: a constructor, an array of constructors or
// null.
func (p *PropExtractor) typeOf(n *ts.Node) entry.Type {
	if n == nil {
		return entry.NewType("any")
	}
	switch n.Kind() {
	case "null", "undefined":
		return entry.NewType("any")
	case kindArray:
		var names []string
		for _, el := range namedChildren(n) {
			if el.Kind() == "null" {
				continue
			}
			names = append(names, p.ctx.text(el))
		}
		if len(names) == 0 {
			return entry.NewType("any")
		}
		return entry.NewType(names...)
	}
	return entry.NewType(p.ctx.text(n))
}

// fromValue reads a prop declaration bound elsewhere, e.g. a shared const.
func (p *PropExtractor) fromValue(prop *entry.PropEntry, v entry.Value) {
	switch val := v.(type) {
	case entry.Unresolved:
		prop.Type = entry.NewType(string(val))
	case entry.Array:
		prop.Type = typeOfValue(val)
	case entry.Object:
		if t, ok := val.Get("type"); ok {
			prop.Type = typeOfValue(t)
		}
		if r, ok := val.Get("required"); ok {
			if b, ok := r.(entry.Bool); ok {
				prop.Required = bool(b)
			}
		}
		if d, ok := val.Get("default"); ok {
			if _, undefined := d.(entry.Undefined); !undefined {
				prop.Default = d
			}
		}
	}
}

func typeOfValue(v entry.Value) entry.Type {
	switch val := v.(type) {
	case entry.Unresolved:
		return entry.NewType(string(val))
	case entry.Array:
		var names []string
		for _, el := range val {
			if u, ok := el.(entry.Unresolved); ok {
				names = append(names, string(u))
			}
		}
		if len(names) > 0 {
			return entry.NewType(names...)
		}
	}
	return entry.NewType("any")
}

// propTypeAssertion reads `X as PropType<T>` as the type T.
func propTypeAssertion(n *ts.Node, source []byte) entry.Type {
	children := namedChildren(n)
	if len(children) < 2 {
		return entry.NewType("any")
	}
	typ := text(children[len(children)-1], source)
	if inner, ok := strings.CutPrefix(typ, "PropType<"); ok && strings.HasSuffix(inner, ">") {
		return jsdoc.SplitUnion(strings.TrimSuffix(inner, ">"))
	}
	return entry.NewType(text(children[0], source))
}
