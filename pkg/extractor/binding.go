package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// bindDeclarations binds the declarations found directly in a program or
// statement block, in source order. Function and class declarations are
// bound to their verbatim source.
func (c *Context) bindDeclarations(block *ts.Node, s *scope.Scope) {
	for _, stmt := range namedChildren(block) {
		c.bindStatement(stmt, s)
	}
}

func (c *Context) bindStatement(stmt *ts.Node, s *scope.Scope) {
	switch stmt.Kind() {
	case "lexical_declaration", "variable_declaration":
		for _, decl := range namedChildren(stmt) {
			if decl.Kind() != "variable_declarator" {
				continue
			}
			c.bindPattern(decl.ChildByFieldName("name"), decl.ChildByFieldName("value"), s)
		}

	case kindFunctionDecl, kindGeneratorDecl, "class_declaration":
		if name := stmt.ChildByFieldName("name"); name != nil {
			s.Bind(c.text(name), entry.Raw(c.text(stmt)))
		}

	case "export_statement":
		if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			c.bindStatement(decl, s)
		}

	case "expression_statement":
		// NAME = value at the top of a block rebinds an existing name
		expr := firstNamed(stmt)
		if expr == nil || expr.Kind() != "assignment_expression" {
			return
		}
		left := expr.ChildByFieldName("left")
		if left != nil && left.Kind() == kindIdentifier && s.Has(c.text(left)) {
			s.Bind(c.text(left), c.Resolve(expr.ChildByFieldName("right"), s))
		}
	}
}

// bindPattern binds the names introduced by a declarator or parameter
// pattern. value may be nil.
func (c *Context) bindPattern(pattern, value *ts.Node, s *scope.Scope) {
	if pattern == nil {
		return
	}

	switch pattern.Kind() {
	case kindIdentifier, kindShorthand:
		if value == nil {
			s.Bind(c.text(pattern), entry.Undefined{})
			return
		}
		s.Bind(c.text(pattern), c.Resolve(value, s))

	case "object_pattern":
		source := entry.Value(entry.Undefined{})
		if value != nil {
			source = c.Resolve(value, s)
		}
		for _, prop := range namedChildren(pattern) {
			switch prop.Kind() {
			case "shorthand_property_identifier_pattern":
				name := c.text(prop)
				s.Bind(name, memberOrUnresolved(source, name))
			case "pair_pattern":
				key, _ := propertyKey(prop.ChildByFieldName("key"), c.Source)
				target := prop.ChildByFieldName("value")
				if target != nil && target.Kind() == kindIdentifier {
					s.Bind(c.text(target), memberOrUnresolved(source, key))
				}
			case "object_assignment_pattern":
				if left := prop.ChildByFieldName("left"); left != nil {
					s.Bind(c.text(left), entry.Unresolved(c.text(left)))
				}
			case "rest_pattern":
				if id := firstNamed(prop); id != nil {
					s.Bind(c.text(id), entry.Unresolved(c.text(id)))
				}
			}
		}

	case "array_pattern":
		for _, el := range namedChildren(pattern) {
			if el.Kind() == kindIdentifier {
				s.Bind(c.text(el), entry.Unresolved(c.text(el)))
			}
		}

	case "assignment_pattern":
		c.bindPattern(pattern.ChildByFieldName("left"), pattern.ChildByFieldName("right"), s)

	case "rest_pattern":
		if id := firstNamed(pattern); id != nil {
			s.Bind(c.text(id), entry.Unresolved(c.text(id)))
		}
	}
}

func memberOrUnresolved(v entry.Value, key string) entry.Value {
	if got, ok := lookupMember(v, key); ok {
		return got
	}
	return entry.Unresolved(key)
}

// functionScope returns a child of s for a function node with its
// parameters bound as unresolved and, for block bodies, its top level
// declarations bound.
func (c *Context) functionScope(fn *ts.Node, s *scope.Scope) *scope.Scope {
	child := s.Child()

	if param := fn.ChildByFieldName("parameter"); param != nil {
		child.Bind(c.text(param), entry.Unresolved(c.text(param)))
	}
	for _, p := range namedChildren(fn.ChildByFieldName("parameters")) {
		pattern := p
		if p.Kind() == "required_parameter" || p.Kind() == "optional_parameter" {
			pattern = p.ChildByFieldName("pattern")
		}
		if pattern == nil {
			continue
		}
		if pattern.Kind() == kindIdentifier {
			child.Bind(c.text(pattern), entry.Unresolved(c.text(pattern)))
			continue
		}
		c.bindParamPattern(pattern, child)
	}

	if body := fn.ChildByFieldName("body"); body != nil && body.Kind() == kindBlock {
		c.bindDeclarations(body, child)
	}
	return child
}

// bindParamPattern shadows every name of a destructured parameter.
func (c *Context) bindParamPattern(pattern *ts.Node, s *scope.Scope) {
	switch pattern.Kind() {
	case kindIdentifier, "shorthand_property_identifier_pattern":
		s.Bind(c.text(pattern), entry.Unresolved(c.text(pattern)))
	case "assignment_pattern", "object_assignment_pattern":
		if left := pattern.ChildByFieldName("left"); left != nil {
			c.bindParamPattern(left, s)
		}
	case "pair_pattern":
		if v := pattern.ChildByFieldName("value"); v != nil {
			c.bindParamPattern(v, s)
		}
	default:
		for _, child := range namedChildren(pattern) {
			c.bindParamPattern(child, s)
		}
	}
}
