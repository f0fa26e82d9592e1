package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// ComputedExtractor documents the computed option.
type ComputedExtractor struct {
	ctx    *Context
	events *EventExtractor
}

// NewComputedExtractor returns a computed extractor bound to ctx.
func NewComputedExtractor(ctx *Context) *ComputedExtractor {
	return &ComputedExtractor{ctx: ctx, events: NewEventExtractor(ctx)}
}

// Extract walks the computed object literal. Getters and setters are also
// scanned for emit calls.
func (c *ComputedExtractor) Extract(obj *ts.Node, s *scope.Scope) error {
	ctx := c.ctx
	computedOn := ctx.Enabled(entry.KindComputed)
	if !computedOn && !ctx.Enabled(entry.KindEvent) {
		return nil
	}
	obj = unwrap(obj)
	if obj == nil || obj.Kind() != kindObject {
		if obj != nil {
			ctx.diagnose(LevelWarning, obj, "computed option is not an object literal")
		}
		return nil
	}

	for _, member := range members(obj) {
		switch member.Kind() {
		case kindComment, kindSpread:
			continue
		case kindPair, kindMethodDef, kindShorthand:
		default:
			return ctx.unsupported(member, "computed")
		}

		getter := computedGetter(member, ctx.Source)
		if computedOn {
			computed := entry.NewComputed(ctx.memberName(member, s), ctx.dependencies(getter))
			ctx.describe(computed, ctx.comment(member))
			ctx.emit(computed)
		}
		if err := c.events.Extract(member.ChildByFieldName("value"), s); err != nil {
			return err
		}
		if member.Kind() == kindMethodDef {
			if err := c.events.Extract(member, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// computedGetter returns the getter function of a computed member: the
// member itself, its function value, or the get member of a {get, set}
// object.
func computedGetter(member *ts.Node, source []byte) *ts.Node {
	switch member.Kind() {
	case kindMethodDef:
		return member
	case kindPair:
		value := unwrap(member.ChildByFieldName("value"))
		if isFunction(value) {
			return value
		}
		if value == nil || value.Kind() != kindObject {
			return nil
		}
		for _, accessor := range namedChildren(value) {
			name, _ := propertyKey(memberKey(accessor), source)
			if name != "get" {
				continue
			}
			if fn := methodFunction(accessor); fn != nil {
				return fn
			}
		}
	}
	return nil
}

// dependencies lists the instance properties read by a getter: this.X
// member reads and names destructured from this, in first-seen order.
// Arrow callbacks share the instance; nested regular functions do not.
// The first parameter of the getter also names the instance.
func (c *Context) dependencies(getter *ts.Node) []string {
	deps := []string{}
	if getter == nil {
		return deps
	}

	aliases := map[string]bool{"this": true}
	if p := getter.ChildByFieldName("parameter"); p != nil {
		aliases[c.text(p)] = true
	} else if params := namedChildren(getter.ChildByFieldName("parameters")); len(params) > 0 {
		first := params[0]
		if pattern := first.ChildByFieldName("pattern"); pattern != nil {
			first = pattern
		}
		if first.Kind() == kindIdentifier {
			aliases[c.text(first)] = true
		}
	}

	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}

	var walk func(n *ts.Node)
	walk = func(n *ts.Node) {
		switch n.Kind() {
		case kindMember:
			obj := unwrap(n.ChildByFieldName("object"))
			if obj != nil && aliases[c.text(obj)] {
				add(c.text(n.ChildByFieldName("property")))
			}
		case kindSubscript:
			obj := unwrap(n.ChildByFieldName("object"))
			index := unwrap(n.ChildByFieldName("index"))
			if obj != nil && aliases[c.text(obj)] && index != nil && index.Kind() == kindString {
				add(stringValue(index, c.Source))
			}
		case "variable_declarator":
			pattern := n.ChildByFieldName("name")
			value := unwrap(n.ChildByFieldName("value"))
			if pattern != nil && pattern.Kind() == "object_pattern" && value != nil && aliases[c.text(value)] {
				for _, prop := range namedChildren(pattern) {
					switch prop.Kind() {
					case "shorthand_property_identifier_pattern":
						add(c.text(prop))
					case "pair_pattern", "object_assignment_pattern":
						key := prop.ChildByFieldName("key")
						if key == nil {
							key = prop.ChildByFieldName("left")
						}
						name, _ := propertyKey(key, c.Source)
						add(name)
					}
				}
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil || (isFunction(child) && child.Kind() != kindArrow) {
				continue
			}
			walk(child)
		}
	}

	if body := getter.ChildByFieldName("body"); body != nil {
		walk(body)
	}
	return deps
}
