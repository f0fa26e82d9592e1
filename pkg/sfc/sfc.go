// Package sfc splits a single file component into its top level blocks.
package sfc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Block is one top level block of a component file.
type Block struct {
	// Type is the tag name: template, script, style or a custom block name.
	Type  string
	Lang  string
	Attrs map[string]string

	Content []byte
	// Start and End are byte offsets of Content in the file.
	Start int
	End   int
	// Line is the 1-based file line Content starts on.
	Line uint
}

// Setup reports whether the block is a <script setup> block.
func (b *Block) Setup() bool {
	_, ok := b.Attrs["setup"]
	return ok
}

// Descriptor holds the blocks of a component file.
type Descriptor struct {
	Template    *Block
	Script      *Block
	ScriptSetup *Block
	Styles      []*Block
	Custom      []*Block
}

// Split tokenizes source and returns its top level blocks. Content outside
// blocks is ignored. An unterminated block runs to the end of the file.
func Split(source []byte) (*Descriptor, error) {
	var (
		desc   = &Descriptor{}
		z      = html.NewTokenizer(bytes.NewReader(source))
		offset int
		open   *Block
		depth  int
	)

	finish := func(end int) {
		open.End = end
		open.Content = source[open.Start:end]
		desc.add(open)
		open = nil
	}

	for {
		tt := z.Next()
		raw := z.Raw()
		tokenStart := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenize component: %w", err)
			}
			if open != nil {
				finish(len(source))
			}
			return desc, nil

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if open != nil {
				if tag == open.Type {
					depth++
				}
				continue
			}
			open = &Block{
				Type:  tag,
				Attrs: attrs(z, hasAttr),
				Start: offset,
				Line:  uint(bytes.Count(source[:offset], []byte("\n"))) + 1,
			}
			open.Lang = open.Attrs["lang"]
			depth = 0

		case html.EndTagToken:
			if open == nil {
				continue
			}
			name, _ := z.TagName()
			if string(name) != open.Type {
				continue
			}
			if depth > 0 {
				depth--
				continue
			}
			finish(tokenStart)
		}
	}
}

func attrs(z *html.Tokenizer, more bool) map[string]string {
	out := map[string]string{}
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		out[string(key)] = string(val)
	}
	return out
}

func (d *Descriptor) add(b *Block) {
	switch b.Type {
	case "template":
		if d.Template == nil {
			d.Template = b
		}
	case "script":
		if b.Setup() {
			if d.ScriptSetup == nil {
				d.ScriptSetup = b
			}
		} else if d.Script == nil {
			d.Script = b
		}
	case "style":
		d.Styles = append(d.Styles, b)
	default:
		d.Custom = append(d.Custom, b)
	}
}

// Masked returns a copy of source with every byte outside the block replaced
// by a space. Line breaks are kept, so positions in the copy are file
// positions.
func (b *Block) Masked(source []byte) []byte {
	out := make([]byte, len(source))
	for i, c := range source {
		switch {
		case i >= b.Start && i < b.End, c == '\n', c == '\r':
			out[i] = c
		default:
			out[i] = ' '
		}
	}
	return out
}
