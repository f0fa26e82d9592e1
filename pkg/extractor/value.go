package extractor

import (
	"math/big"
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// Resolve turns an expression into a static value when that is safe:
// literals, static object and array literals, and identifiers or member
// paths bound in s. Other expressions are captured verbatim as entry.Raw;
// identifiers with no binding become entry.Unresolved. Resolve never
// evaluates code.
func (c *Context) Resolve(n *ts.Node, s *scope.Scope) entry.Value {
	if n == nil {
		return entry.Undefined{}
	}

	switch n.Kind() {
	case kindParens, "as_expression", "satisfies_expression", "non_null_expression", "type_assertion":
		inner := unwrap(n)
		if v := c.Resolve(inner, s); entry.IsStatic(v) {
			return v
		}
		if n.Kind() == kindParens {
			return entry.Raw(c.text(n))
		}
		return c.Resolve(inner, s)

	case kindString:
		return entry.String(stringValue(n, c.Source))

	case kindTemplate:
		for _, child := range namedChildren(n) {
			if child.Kind() == "template_substitution" {
				return entry.Raw(c.text(n))
			}
		}
		raw := c.text(n)
		return entry.String(raw[1 : len(raw)-1])

	case kindNumber:
		return parseNumber(c.text(n))

	case "true":
		return entry.Bool(true)
	case "false":
		return entry.Bool(false)
	case "null":
		return entry.Null{}
	case "undefined":
		return entry.Undefined{}

	case kindIdentifier, kindShorthand:
		name := c.text(n)
		if name == "undefined" {
			return entry.Undefined{}
		}
		if s != nil {
			if v, ok := s.Lookup(name); ok {
				return v
			}
		}
		return entry.Unresolved(name)

	case kindMember:
		obj := c.Resolve(n.ChildByFieldName("object"), s)
		prop := n.ChildByFieldName("property")
		if v, ok := lookupMember(obj, c.text(prop)); ok {
			return v
		}
		return entry.Unresolved(c.text(n))

	case kindSubscript:
		obj := c.Resolve(n.ChildByFieldName("object"), s)
		index := c.Resolve(unwrap(n.ChildByFieldName("index")), s)
		if entry.IsStatic(index) {
			if v, ok := lookupMember(obj, entry.Text(index)); ok {
				return v
			}
		}
		return entry.Unresolved(c.text(n))

	case "unary_expression":
		op := c.text(n.ChildByFieldName("operator"))
		if op == "-" || op == "+" {
			if num, ok := c.Resolve(n.ChildByFieldName("argument"), s).(entry.Number); ok {
				if op == "-" {
					return -num
				}
				return num
			}
		}
		return entry.Raw(c.text(n))

	case kindObject:
		if obj, ok := c.resolveObject(n, s); ok {
			return obj
		}
		return entry.Raw(c.text(n))

	case kindArray:
		arr := entry.Array{}
		for _, el := range namedChildren(n) {
			v := c.Resolve(el, s)
			if !entry.IsStatic(v) || el.Kind() == kindSpread {
				return entry.Raw(c.text(n))
			}
			arr = append(arr, v)
		}
		return arr
	}

	return entry.Raw(c.text(n))
}

func (c *Context) resolveObject(n *ts.Node, s *scope.Scope) (entry.Object, bool) {
	obj := entry.Object{}
	for _, member := range namedChildren(n) {
		switch member.Kind() {
		case kindPair:
			key, computed := propertyKey(member.ChildByFieldName("key"), c.Source)
			if computed != nil {
				k := c.Resolve(computed, s)
				if !entry.IsStatic(k) {
					return nil, false
				}
				key = entry.Text(k)
			}
			v := c.Resolve(member.ChildByFieldName("value"), s)
			if !entry.IsStatic(v) {
				return nil, false
			}
			obj = append(obj, entry.Member{Key: key, Value: v})

		case kindShorthand:
			v := c.Resolve(member, s)
			if !entry.IsStatic(v) {
				return nil, false
			}
			obj = append(obj, entry.Member{Key: c.text(member), Value: v})

		default:
			return nil, false
		}
	}
	return obj, true
}

func lookupMember(obj entry.Value, key string) (entry.Value, bool) {
	switch o := obj.(type) {
	case entry.Object:
		return o.Get(key)
	case entry.Array:
		if key == "length" {
			return entry.Number(len(o)), true
		}
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(o) {
			return o[i], true
		}
	case entry.String:
		if key == "length" {
			return entry.Number(len(o)), true
		}
	}
	return nil, false
}

// maxSafeInteger is the largest integer a float64 holds without rounding.
const maxSafeInteger = 1<<53 - 1

// parseNumber materializes a number literal. Integers beyond the safe
// range and floats that overflow keep their source text.
func parseNumber(raw string) entry.Value {
	if strings.HasSuffix(raw, "n") {
		return entry.BigInt(strings.TrimSuffix(raw, "n"))
	}
	var i big.Int
	if _, ok := i.SetString(raw, 0); ok {
		if i.IsInt64() && i.Int64() <= maxSafeInteger {
			return entry.Number(i.Int64())
		}
		return entry.Raw(raw)
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64); err == nil {
		return entry.Number(f)
	}
	return entry.Raw(raw)
}

// renderDefault renders a resolved default value the way it reads in a
// signature: literals in their canonical form, anything else as written.
func (c *Context) renderDefault(v entry.Value, n *ts.Node) string {
	switch v.(type) {
	case entry.String, entry.Number, entry.Bool, entry.Null, entry.Undefined, entry.BigInt:
		return v.String()
	}
	return c.text(n)
}
