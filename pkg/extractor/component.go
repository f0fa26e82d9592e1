package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/parser/queries"
)

// Definition is the located component object of a script.
type Definition struct {
	// Statement is the top level statement documented by the component comment.
	Statement *ts.Node
	// Options is the object literal holding the component options.
	Options *ts.Node
	// Factory is the @mixin function returning the options, if any.
	Factory *ts.Node
	// FactoryName is the declared name of Factory.
	FactoryName string
}

// Meta holds the component level documentation.
type Meta struct {
	Name         string
	Description  string
	Category     string
	Keywords     []entry.Keyword
	InheritAttrs bool
}

// Comments converts comment query matches to index input.
func Comments(matches []queries.QueryMatch) []jsdoc.Comment {
	var out []jsdoc.Comment
	for _, match := range matches {
		for _, capture := range match.Captures {
			out = append(out, jsdoc.Comment{
				Start: capture.Node.StartByte(),
				End:   capture.Node.EndByte(),
				Text:  capture.Text,
			})
		}
	}
	return out
}

// Locate picks the component definition among the export query matches,
// in source order. It returns nil when the script defines no component.
func (c *Context) Locate(root *ts.Node, matches []queries.QueryMatch) *Definition {
	for _, match := range matches {
		var options, reference, factory, target *ts.Node
		for _, capture := range match.Captures {
			switch capture.Field {
			case "options":
				options = capture.Node
			case "reference":
				reference = capture.Node
			case "factory":
				factory = capture.Node
			case "target":
				target = capture.Node
			}
		}

		switch {
		case target != nil:
			if t := c.text(target); t != "module.exports" && t != "exports.default" {
				continue
			}
			return &Definition{Statement: topLevel(options), Options: options}

		case options != nil:
			return &Definition{Statement: topLevel(options), Options: options}

		case reference != nil:
			if obj := c.declaredOptions(root, c.text(reference)); obj != nil {
				return &Definition{Statement: topLevel(reference), Options: obj}
			}

		case factory != nil:
			if def := c.factory(factory); def != nil {
				return def
			}
		}
	}
	return nil
}

// declaredOptions finds the object literal bound to name at the top level:
// `const X = {..}` or `const X = Vue.extend({..})`.
func (c *Context) declaredOptions(root *ts.Node, name string) *ts.Node {
	for _, stmt := range namedChildren(root) {
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				stmt = decl
			}
		}
		if stmt.Kind() != "lexical_declaration" && stmt.Kind() != "variable_declaration" {
			continue
		}
		for _, decl := range namedChildren(stmt) {
			if decl.Kind() != "variable_declarator" || c.text(decl.ChildByFieldName("name")) != name {
				continue
			}
			return optionsObject(decl.ChildByFieldName("value"))
		}
	}
	return nil
}

// factory accepts an exported function documented with @mixin whose body
// returns the component options.
func (c *Context) factory(fn *ts.Node) *Definition {
	stmt := topLevel(fn)
	if !c.comment(stmt).Has(jsdoc.TagMixin) {
		return nil
	}

	var options *ts.Node
	if body := fn.ChildByFieldName("body"); body != nil {
		if body.Kind() != kindBlock {
			options = optionsObject(body)
		} else {
			walkReturns(body, func(ret *ts.Node) {
				if options == nil {
					options = optionsObject(firstNamed(ret))
				}
			})
		}
	}
	if options == nil {
		return nil
	}
	return &Definition{
		Statement:   stmt,
		Options:     options,
		Factory:     fn,
		FactoryName: c.text(fn.ChildByFieldName("name")),
	}
}

// optionsObject unwraps `{..}`, `Vue.extend({..})` and
// `defineComponent({..})` to the options literal.
func optionsObject(n *ts.Node) *ts.Node {
	n = unwrap(n)
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case kindObject:
		return n
	case kindCall:
		if arg := firstNamed(n.ChildByFieldName("arguments")); arg != nil {
			if arg = unwrap(arg); arg.Kind() == kindObject {
				return arg
			}
		}
	}
	return nil
}

// topLevel returns the program level statement containing n.
func topLevel(n *ts.Node) *ts.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if p := cur.Parent(); p != nil && p.Kind() == "program" {
			return cur
		}
	}
	return n
}

// ComponentExtractor runs every kind extractor over one component.
type ComponentExtractor struct {
	ctx      *Context
	model    *ModelExtractor
	props    *PropExtractor
	data     *DataExtractor
	computed *ComputedExtractor
	methods  *MethodExtractor
	events   *EventExtractor
	slots    *SlotExtractor
}

// NewComponentExtractor wires the kind extractors to ctx.
func NewComponentExtractor(ctx *Context) *ComponentExtractor {
	return &ComponentExtractor{
		ctx:      ctx,
		model:    NewModelExtractor(ctx),
		props:    NewPropExtractor(ctx),
		data:     NewDataExtractor(ctx),
		computed: NewComputedExtractor(ctx),
		methods:  NewMethodExtractor(ctx),
		events:   NewEventExtractor(ctx),
		slots:    NewSlotExtractor(ctx),
	}
}

// Template is the markup region handed to the slot extractor.
type Template struct {
	Content []byte
	// Line is the file line the content starts on.
	Line uint
}

// Extract documents the component. root is the script program node and may
// be nil for template-only components; def may be nil when the script
// defines no component. Entries and diagnostics go to the context channel;
// the returned error is an unsupported syntax fault.
func (x *ComponentExtractor) Extract(root *ts.Node, def *Definition, tmpl *Template) (Meta, error) {
	ctx := x.ctx
	meta := Meta{InheritAttrs: true, Keywords: []entry.Keyword{}}

	if root != nil {
		ctx.bindDeclarations(root, ctx.Module)
	}

	var block jsdoc.Block
	if def != nil {
		block = ctx.comment(def.Statement)
		meta.Description = block.Description
		meta.Keywords = jsdoc.Unreserved(block.Keywords)
		if kw, ok := block.Find(jsdoc.TagCategory); ok {
			meta.Category = firstLine(kw.Description)
		}
		if kw, ok := block.Find(jsdoc.TagName); ok {
			meta.Name = firstLine(kw.Description)
		}
		if meta.Name == "" {
			meta.Name = def.FactoryName
		}

		if err := x.options(def, &meta); err != nil {
			return meta, err
		}
	}

	if tmpl != nil {
		if err := x.slots.Extract(tmpl.Content, tmpl.Line); err != nil {
			return meta, err
		}
	}
	x.slots.Documented(block)

	return meta, nil
}

func (x *ComponentExtractor) options(def *Definition, meta *Meta) error {
	ctx := x.ctx
	s := ctx.Module
	if def.Factory != nil {
		s = ctx.functionScope(def.Factory, s)
	}

	opts := members(def.Options)

	// the model prop must be known before props are documented
	modelUsed := ctx.Enabled(entry.KindModel) || ctx.Enabled(entry.KindProp)
	for _, member := range opts {
		if modelUsed && member.Kind() == kindPair && ctx.memberName(member, s) == "model" {
			if err := x.model.Extract(member, s); err != nil {
				return err
			}
		}
	}

	for _, member := range opts {
		switch member.Kind() {
		case kindComment, kindSpread:
			continue
		case kindPair, kindMethodDef, kindShorthand:
		default:
			return ctx.unsupported(member, "component options")
		}

		value := member.ChildByFieldName("value")
		if member.Kind() != kindPair {
			value = member
		}

		var err error
		switch ctx.memberName(member, s) {
		case "model":
		case "name":
			if v, ok := ctx.Resolve(value, s).(entry.String); ok {
				meta.Name = string(v)
			}
		case "inheritAttrs":
			if v, ok := ctx.Resolve(value, s).(entry.Bool); ok {
				meta.InheritAttrs = bool(v)
			}
		case "props":
			err = x.props.Extract(value, s)
		case "data":
			err = x.data.Extract(value, s)
		case "computed":
			err = x.computed.Extract(value, s)
		case "methods":
			err = x.methods.Extract(value, s)
		case "emits":
			err = x.events.Declared(value, s)
		default:
			// hooks, watchers and setup may emit too
			err = x.events.Extract(value, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
