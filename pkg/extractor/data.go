package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// DataExtractor documents the reactive state returned by the data option.
type DataExtractor struct {
	ctx *Context
}

// NewDataExtractor returns a data extractor bound to ctx.
func NewDataExtractor(ctx *Context) *DataExtractor {
	return &DataExtractor{ctx: ctx}
}

// Extract accepts a data function or object literal.
func (d *DataExtractor) Extract(n *ts.Node, s *scope.Scope) error {
	ctx := d.ctx
	if !ctx.Enabled(entry.KindData) {
		return nil
	}

	obj, sc := d.returnedObject(unwrap(n), s)
	if obj == nil {
		if n != nil {
			ctx.diagnose(LevelWarning, n, "data option does not return an object literal")
		}
		return nil
	}

	for _, member := range members(obj) {
		var data *entry.DataEntry
		switch member.Kind() {
		case kindComment, kindSpread:
			continue
		case kindPair:
			data = d.pair(member, sc)
		case kindShorthand:
			data = entry.NewData(ctx.text(member), ctx.Resolve(member, sc))
		case kindMethodDef:
			data = entry.NewData(ctx.memberName(member, sc), entry.Raw(ctx.text(member)))
		default:
			return ctx.unsupported(member, "data")
		}

		block := ctx.comment(member)
		ctx.describe(data, block)
		if kw, ok := block.Find(jsdoc.TagType); ok {
			if typ := jsdoc.ParseType(kw.Description); !typ.IsZero() {
				data.Type = typ.String()
			}
		}
		if kw, ok := block.Find(jsdoc.TagInitial); ok {
			data.InitialValue = entry.Raw(kw.Description)
		}
		ctx.emit(data)
	}
	return nil
}

func (d *DataExtractor) pair(member *ts.Node, s *scope.Scope) *entry.DataEntry {
	ctx := d.ctx
	name := ctx.memberName(member, s)
	value := member.ChildByFieldName("value")

	v := ctx.Resolve(value, s)
	if _, unresolved := v.(entry.Unresolved); unresolved && unwrap(value).Kind() == kindMember {
		data := entry.NewData(name, entry.Raw(ctx.text(value)))
		if thisRooted(unwrap(value)) {
			data.Type = "object"
		}
		return data
	}
	return entry.NewData(name, v)
}

// thisRooted reports whether a member chain starts at `this`.
func thisRooted(n *ts.Node) bool {
	for n != nil && (n.Kind() == kindMember || n.Kind() == kindSubscript) {
		n = unwrap(n.ChildByFieldName("object"))
	}
	return n != nil && n.Kind() == kindThis
}

// returnedObject finds the object literal a data option yields along with
// the scope its members resolve in.
func (d *DataExtractor) returnedObject(n *ts.Node, s *scope.Scope) (*ts.Node, *scope.Scope) {
	if n == nil {
		return nil, s
	}
	if n.Kind() == kindObject {
		return n, s
	}
	if !isFunction(n) {
		return nil, s
	}

	fnScope := d.ctx.functionScope(n, s)
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil, fnScope
	}
	if body.Kind() != kindBlock {
		if obj := unwrap(body); obj != nil && obj.Kind() == kindObject {
			return obj, fnScope
		}
		return nil, fnScope
	}

	var obj *ts.Node
	walkReturns(body, func(ret *ts.Node) {
		if obj != nil {
			return
		}
		if v := unwrap(firstNamed(ret)); v != nil && v.Kind() == kindObject {
			obj = v
		}
	})
	return obj, fnScope
}
