package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Node kinds shared by the JavaScript and TypeScript grammars.
const (
	kindComment        = "comment"
	kindObject         = "object"
	kindArray          = "array"
	kindPair           = "pair"
	kindMethodDef      = "method_definition"
	kindShorthand      = "shorthand_property_identifier"
	kindSpread         = "spread_element"
	kindIdentifier     = "identifier"
	kindMember         = "member_expression"
	kindSubscript      = "subscript_expression"
	kindCall           = "call_expression"
	kindString         = "string"
	kindTemplate       = "template_string"
	kindNumber         = "number"
	kindFunction       = "function_expression"
	kindFunctionLegacy = "function"
	kindArrow          = "arrow_function"
	kindFunctionDecl   = "function_declaration"
	kindGeneratorDecl  = "generator_function_declaration"
	kindBlock          = "statement_block"
	kindReturn         = "return_statement"
	kindParens         = "parenthesized_expression"
	kindThis           = "this"
	kindError          = "ERROR"
)

func text(n *ts.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

func line(n *ts.Node) uint {
	if n == nil {
		return 0
	}
	return n.StartPosition().Row + 1
}

// namedChildren returns the named children of n, skipping comments.
func namedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == kindComment {
			continue
		}
		out = append(out, child)
	}
	return out
}

// members returns the named children of an object literal, comments included,
// so callers can reject unknown member shapes.
func members(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func isFunction(n *ts.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case kindFunction, kindFunctionLegacy, kindArrow, kindFunctionDecl, kindGeneratorDecl,
		kindMethodDef, "generator_function":
		return true
	}
	return false
}

// unwrap strips parentheses and TypeScript assertions around an expression.
func unwrap(n *ts.Node) *ts.Node {
	for n != nil {
		switch n.Kind() {
		case kindParens, "as_expression", "satisfies_expression", "non_null_expression", "type_assertion":
			inner := firstNamed(n)
			if inner == nil {
				return n
			}
			n = inner
		default:
			return n
		}
	}
	return n
}

func firstNamed(n *ts.Node) *ts.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// propertyKey returns the static name of an object member key. Computed keys
// are reported with ok=false and the node to resolve.
func propertyKey(key *ts.Node, source []byte) (name string, computed *ts.Node) {
	if key == nil {
		return "", nil
	}
	switch key.Kind() {
	case kindString:
		return stringValue(key, source), nil
	case "computed_property_name":
		return "", firstNamed(key)
	default:
		return text(key, source), nil
	}
}

// memberKey returns the key node of an object member.
func memberKey(member *ts.Node) *ts.Node {
	switch member.Kind() {
	case kindPair:
		return member.ChildByFieldName("key")
	case kindMethodDef:
		return member.ChildByFieldName("name")
	case kindShorthand:
		return member
	}
	return nil
}

// stringValue decodes a string literal node.
func stringValue(n *ts.Node, source []byte) string {
	var b strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(text(child, source))
		case "escape_sequence":
			b.WriteString(unescape(text(child, source)))
		}
	}
	return b.String()
}

func unescape(seq string) string {
	if len(seq) < 2 {
		return seq
	}
	switch seq[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		return "\x00"
	case 'u', 'x':
		hex := strings.Trim(seq[2:], "{}")
		var r rune
		for _, c := range hex {
			r <<= 4
			switch {
			case c >= '0' && c <= '9':
				r |= c - '0'
			case c >= 'a' && c <= 'f':
				r |= c - 'a' + 10
			case c >= 'A' && c <= 'F':
				r |= c - 'A' + 10
			default:
				return seq
			}
		}
		return string(r)
	case '\n':
		return ""
	}
	return seq[1:]
}

// typeAnnotation returns the type text of a type_annotation node without
// its leading colon.
func typeAnnotation(n *ts.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(text(n, source), ":"))
}

// enclosingStatement returns the statement containing n without crossing a
// function boundary, or n itself.
func enclosingStatement(n *ts.Node) *ts.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		kind := cur.Kind()
		if strings.HasSuffix(kind, "_statement") || kind == "lexical_declaration" || kind == "variable_declaration" {
			return cur
		}
		if cur != n && isFunction(cur) {
			break
		}
	}
	return n
}

// kebabCase converts a camelCase identifier to kebab-case.
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
