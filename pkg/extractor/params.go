package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// functionParams maps the parameter list of a function node to Param
// records. Arrow functions with a single bare parameter are handled too.
func (c *Context) functionParams(fn *ts.Node, s *scope.Scope) []entry.Param {
	params := []entry.Param{}
	if fn == nil {
		return params
	}

	if single := fn.ChildByFieldName("parameter"); single != nil {
		return append(params, entry.Param{Name: c.text(single), Type: entry.NewType(entry.UnknownType)})
	}

	for _, p := range namedChildren(fn.ChildByFieldName("parameters")) {
		if param, ok := c.param(p, s); ok {
			params = append(params, param)
		}
	}
	return params
}

// param maps one parameter shape: identifier, rest, defaulted, destructured,
// or a TypeScript parameter wrapping any of those.
func (c *Context) param(p *ts.Node, s *scope.Scope) (entry.Param, bool) {
	param := entry.Param{Type: entry.NewType(entry.UnknownType)}

	switch p.Kind() {
	case "required_parameter", "optional_parameter":
		pattern := p.ChildByFieldName("pattern")
		if pattern == nil || pattern.Kind() == kindThis {
			return param, false
		}
		inner, ok := c.param(pattern, s)
		if !ok {
			return param, false
		}
		param = inner
		if value := p.ChildByFieldName("value"); value != nil {
			v := c.Resolve(value, s)
			param.DefaultValue = c.renderDefault(v, value)
			if t := entry.TypeOf(v); t != "any" {
				param.Type = entry.NewType(t)
			}
		}
		if typ := typeAnnotation(p.ChildByFieldName("type"), c.Source); typ != "" {
			param.Type = jsdoc.SplitUnion(typ)
		}

	case kindIdentifier:
		param.Name = c.text(p)

	case "rest_pattern":
		param.Name = strings.TrimPrefix(c.text(p), "...")
		if id := firstNamed(p); id != nil {
			param.Name = c.text(id)
		}
		param.Rest = true

	case "assignment_pattern":
		left := p.ChildByFieldName("left")
		right := p.ChildByFieldName("right")
		if left != nil && left.Kind() != kindIdentifier {
			param.Name = destructuredName(left)
		} else {
			param.Name = c.text(left)
		}
		v := c.Resolve(right, s)
		param.DefaultValue = c.renderDefault(v, right)
		if t := entry.TypeOf(v); t != "any" {
			param.Type = entry.NewType(t)
		}

	case "object_pattern", "array_pattern":
		param.Name = destructuredName(p)
		param.Declaration = c.text(p)

	default:
		return param, false
	}

	return param, true
}

func destructuredName(p *ts.Node) string {
	if p.Kind() == "array_pattern" {
		return "array"
	}
	return "object"
}

// mergeParamTags applies @param style tags to structural params. When the
// counts agree tags are matched by position, otherwise by name; tags naming
// no structural param are appended. Tags never override the structural
// name, default value or rest flag.
func mergeParamTags(params []entry.Param, tags []jsdoc.ParamTag) []entry.Param {
	if len(tags) == 0 {
		return params
	}

	apply := func(p *entry.Param, tag jsdoc.ParamTag) {
		if !tag.Type.IsZero() {
			p.Type = tag.Type
		}
		if tag.Description != "" {
			p.Description = tag.Description
		}
		if p.DefaultValue == "" && tag.DefaultValue != "" {
			p.DefaultValue = tag.DefaultValue
		}
	}

	if len(tags) == len(params) {
		for i := range params {
			apply(&params[i], tags[i])
		}
		return params
	}

	for _, tag := range tags {
		matched := false
		for i := range params {
			if params[i].Name == tag.Name {
				apply(&params[i], tag)
				matched = true
				break
			}
		}
		if matched || tag.Name == "" {
			continue
		}
		extra := entry.Param{Name: tag.Name, Type: entry.NewType(entry.UnknownType), Rest: tag.Rest}
		apply(&extra, tag)
		params = append(params, extra)
	}
	return params
}

func paramTags(block jsdoc.Block, names ...string) []jsdoc.ParamTag {
	kws := block.All(names...)
	tags := make([]jsdoc.ParamTag, 0, len(kws))
	for _, kw := range kws {
		tags = append(tags, jsdoc.ParseParam(kw.Description))
	}
	return tags
}

// signature renders a call signature such as
// "open(title: string, ...rest: unknow): void".
func signature(name string, params []entry.Param, returns entry.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		var b strings.Builder
		if p.Rest {
			b.WriteString("...")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.String())
		if p.DefaultValue != "" {
			b.WriteString(" = ")
			b.WriteString(p.DefaultValue)
		}
		parts[i] = b.String()
	}
	return name + "(" + strings.Join(parts, ", ") + "): " + returns.String()
}
