package jsdoc

import (
	"strings"

	"github.com/gnana997/sfcdoc/pkg/entry"
)

// Tag names consumed by the extractors.
const (
	TagParam       = "param"
	TagArg         = "arg"
	TagArgument    = "argument"
	TagReturn      = "return"
	TagReturns     = "returns"
	TagEvent       = "event"
	TagMethod      = "method"
	TagName        = "name"
	TagType        = "type"
	TagDefault     = "default"
	TagInitial     = "initialValue"
	TagSlot        = "slot"
	TagProp        = "prop"
	TagData        = "data"
	TagComputed    = "computed"
	TagCategory    = "category"
	TagSyntax      = "syntax"
	TagModel       = "model"
	TagMixin       = "mixin"
	TagPublic      = "public"
	TagProtected   = "protected"
	TagPrivate     = "private"
	TagDescription = "description"
)

var reserved = map[string]struct{}{
	TagParam: {}, TagArg: {}, TagArgument: {}, TagReturn: {}, TagReturns: {},
	TagEvent: {}, TagMethod: {}, TagName: {}, TagType: {}, TagDefault: {},
	TagInitial: {}, TagSlot: {}, TagProp: {}, TagData: {}, TagComputed: {}, TagCategory: {}, TagSyntax: {},
	TagModel: {}, TagMixin: {}, TagPublic: {}, TagProtected: {}, TagPrivate: {},
	TagDescription: {},
}

// IsReserved reports whether name is a tag the extractors consume.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Unreserved returns the keywords that are not consumed by the extractors,
// preserving order.
func Unreserved(keywords []entry.Keyword) []entry.Keyword {
	out := make([]entry.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if !IsReserved(kw.Name) {
			out = append(out, kw)
		}
	}
	return out
}

// Visibility returns the visibility declared by a block, or def.
func (b Block) Visibility(def entry.Visibility) entry.Visibility {
	for _, kw := range b.Keywords {
		if v, ok := entry.ParseVisibility(kw.Name); ok {
			return v
		}
	}
	return def
}

// ParamTag is the parsed body of a @param, @arg or @prop tag.
type ParamTag struct {
	Name         string
	Type         entry.Type
	Description  string
	DefaultValue string
	Optional     bool
	Rest         bool
}

// ParseParam parses "{type} name - description". The type, the dash and the
// description are optional; "[name=default]" marks an optional parameter and
// "...name" or "{...type}" a rest parameter.
func ParseParam(text string) ParamTag {
	var tag ParamTag

	typ, rest := splitType(text)
	if strings.HasPrefix(typ, "...") {
		tag.Rest = true
		typ = strings.TrimPrefix(typ, "...")
	}
	tag.Type = SplitUnion(typ)

	name, desc := splitWord(rest)
	if strings.HasPrefix(name, "[") {
		inner, after := splitBracket(rest)
		name = inner
		desc = after
		tag.Optional = true
		if i := strings.Index(name, "="); i >= 0 {
			tag.DefaultValue = strings.TrimSpace(name[i+1:])
			name = name[:i]
		}
	}
	if strings.HasPrefix(name, "...") {
		tag.Rest = true
		name = strings.TrimPrefix(name, "...")
	}

	tag.Name = strings.TrimSpace(name)
	tag.Description = trimDash(desc)
	return tag
}

// ReturnsTag is the parsed body of a @returns tag.
type ReturnsTag struct {
	Type        entry.Type
	Description string
}

// ParseReturns parses "{type} description". Without braces the whole text
// is the description.
func ParseReturns(text string) ReturnsTag {
	typ, rest := splitType(text)
	return ReturnsTag{Type: SplitUnion(typ), Description: trimDash(rest)}
}

// ParseType parses the body of a @type tag; braces are optional.
func ParseType(text string) entry.Type {
	text = strings.TrimSpace(text)
	if typ, _ := splitType(text); typ != "" {
		return SplitUnion(typ)
	}
	return SplitUnion(text)
}

// ParseSlot parses "name - description" from a @slot tag.
func ParseSlot(text string) (name, description string) {
	name, rest := splitWord(strings.TrimSpace(text))
	return name, trimDash(rest)
}

// SplitUnion splits a type expression on top level "|" separators.
func SplitUnion(typ string) entry.Type {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}

	var (
		out   entry.Type
		depth int
		start int
	)
	for i, r := range typ {
		switch r {
		case '{', '(', '[', '<':
			depth++
		case '}', ')', ']', '>':
			depth--
		case '|':
			if depth == 0 {
				if part := strings.TrimSpace(typ[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(typ[start:]); part != "" {
		out = append(out, part)
	}
	return out
}

// splitType extracts a leading balanced {type} group.
func splitType(text string) (typ, rest string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return "", text
	}

	depth := 0
	for i, r := range text {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(text[1:i]), strings.TrimSpace(text[i+1:])
			}
		}
	}
	return "", text
}

func splitBracket(text string) (inner, rest string) {
	text = strings.TrimSpace(text)
	depth := 0
	for i, r := range text {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[1:i], text[i+1:]
			}
		}
	}
	return strings.Trim(text, "[]"), ""
}

func splitWord(text string) (word, rest string) {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		return text[:i], text[i+1:]
	}
	return text, ""
}

func trimDash(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "- ") || text == "-" {
		text = strings.TrimSpace(text[1:])
	}
	return text
}
