package extractor

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
)

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// SlotExtractor documents the slot elements of a template.
type SlotExtractor struct {
	ctx *Context
}

// NewSlotExtractor returns a slot extractor bound to ctx.
func NewSlotExtractor(ctx *Context) *SlotExtractor {
	return &SlotExtractor{ctx: ctx}
}

type openTag struct {
	name string
	line uint
}

// Extract tokenizes template and emits one SlotEntry per slot element, in
// document order. firstLine is the file line the template starts on.
// Unbalanced markup is reported as warnings.
func (x *SlotExtractor) Extract(template []byte, firstLine uint) error {
	ctx := x.ctx
	if !ctx.Enabled(entry.KindSlot) {
		return nil
	}
	if firstLine == 0 {
		firstLine = 1
	}

	var (
		z       = html.NewTokenizer(bytes.NewReader(template))
		ln      = firstLine
		pending *jsdoc.Block
		stack   []openTag
	)

	for {
		tt := z.Next()
		// TagName lowercases the token buffer in place
		raw := append([]byte(nil), z.Raw()...)
		tokenLine := ln
		ln += uint(bytes.Count(raw, []byte("\n")))

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			for i := len(stack) - 1; i >= 0; i-- {
				x.unclosed(stack[i])
			}
			return nil

		case html.CommentToken:
			block := jsdoc.Parse("<!--" + string(z.Token().Data) + "-->")
			pending = &block

		case html.TextToken:
			if len(bytes.TrimSpace(raw)) > 0 {
				pending = nil
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "slot" {
				x.slot(parseAttrs(raw), pending)
			}
			pending = nil
			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, openTag{name: tag, line: tokenLine})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			pending = nil
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name != tag {
					continue
				}
				for j := len(stack) - 1; j > i; j-- {
					x.unclosed(stack[j])
				}
				stack = stack[:i]
				break
			}

		default:
			pending = nil
		}
	}
}

func (x *SlotExtractor) unclosed(tag openTag) {
	x.ctx.diagnoseAt(LevelWarning, tag.line, "tag <"+tag.name+"> has no matching end tag.")
}

func (x *SlotExtractor) slot(attrs []attr, comment *jsdoc.Block) {
	ctx := x.ctx
	var block jsdoc.Block
	if comment != nil {
		block = *comment
	}

	if tags := block.All(jsdoc.TagSlot); len(tags) > 0 {
		x.Documented(block)
		return
	}

	name := ""
	for _, a := range attrs {
		switch a.key {
		case "name", ":name", "v-bind:name":
			name = a.val
		}
	}

	slot := entry.NewSlot(name)
	ctx.describe(slot, block)
	slot.Props = mergeSlotProps(slotProps(attrs), block)
	ctx.emit(slot)
}

// Documented emits one slot per @slot tag of block, with props taken from
// its @prop tags. It serves both slot comments in markup and component
// level comments in the script.
func (x *SlotExtractor) Documented(block jsdoc.Block) {
	ctx := x.ctx
	if !ctx.Enabled(entry.KindSlot) {
		return
	}
	for _, kw := range block.All(jsdoc.TagSlot) {
		name, desc := jsdoc.ParseSlot(kw.Description)
		slot := entry.NewSlot(name)
		ctx.describe(slot, block)
		slot.Name = entry.NewSlot(name).Name
		slot.Description = desc
		slot.Props = mergeSlotProps(nil, block)
		ctx.emit(slot)
	}
}

// slotProps maps the bindings of a slot element to props.
func slotProps(attrs []attr) []entry.SlotProp {
	props := []entry.SlotProp{}
	for _, a := range attrs {
		key := a.key
		switch {
		case key == "name" || key == ":name" || key == "v-bind:name":
			continue
		case key == "v-bind":
			props = append(props, entry.SlotProp{Name: a.val, Type: "object"})
		case strings.HasPrefix(key, ":") || strings.HasPrefix(key, "v-bind:"):
			name := strings.TrimPrefix(strings.TrimPrefix(key, "v-bind"), ":")
			if i := strings.IndexByte(name, '.'); i > 0 {
				name = name[:i]
			}
			props = append(props, entry.SlotProp{Name: name, Type: "any"})
		case strings.HasPrefix(key, "v-") || strings.HasPrefix(key, "@") || strings.HasPrefix(key, "#"):
			continue
		default:
			props = append(props, entry.SlotProp{Name: key, Type: "string"})
		}
	}
	return props
}

// mergeSlotProps applies "@prop {type} name - description" tags by name;
// tags naming no binding are appended.
func mergeSlotProps(props []entry.SlotProp, block jsdoc.Block) []entry.SlotProp {
	if props == nil {
		props = []entry.SlotProp{}
	}
	for _, kw := range block.All(jsdoc.TagProp) {
		tag := jsdoc.ParseParam(kw.Description)
		if tag.Name == "" {
			continue
		}
		i := 0
		for i < len(props) && props[i].Name != tag.Name {
			i++
		}
		if i == len(props) {
			props = append(props, entry.SlotProp{Name: tag.Name, Type: "any"})
		}
		if !tag.Type.IsZero() {
			props[i].Type = tag.Type.String()
		}
		props[i].Description = tag.Description
	}
	return props
}

type attr struct {
	key string
	val string
}

// parseAttrs reads the attributes of a raw start tag. The html tokenizer
// lowercases attribute names; bindings such as :itemKey need the source case.
func parseAttrs(raw []byte) []attr {
	s := string(raw)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(strings.TrimSuffix(s, ">"), "/")

	i := strings.IndexAny(s, " \t\r\n\f/")
	if i < 0 {
		return nil
	}
	s = s[i:]

	var attrs []attr
	for {
		s = strings.TrimLeft(s, " \t\r\n\f/")
		if s == "" {
			return attrs
		}
		end := strings.IndexAny(s, " \t\r\n\f=/")
		if end < 0 {
			end = len(s)
		}
		a := attr{key: s[:end]}
		s = strings.TrimLeft(s[end:], " \t\r\n\f")

		if strings.HasPrefix(s, "=") {
			s = strings.TrimLeft(s[1:], " \t\r\n\f")
			if s != "" && (s[0] == '"' || s[0] == '\'') {
				quote := s[0]
				n := strings.IndexByte(s[1:], quote)
				if n < 0 {
					a.val, s = s[1:], ""
				} else {
					a.val, s = s[1:n+1], s[n+2:]
				}
			} else {
				end := strings.IndexAny(s, " \t\r\n\f")
				if end < 0 {
					end = len(s)
				}
				a.val, s = s[:end], s[end:]
			}
			a.val = html.UnescapeString(a.val)
		}
		attrs = append(attrs, a)
	}
}
