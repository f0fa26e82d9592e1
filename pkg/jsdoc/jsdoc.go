// Package jsdoc parses documentation comments into a description and an
// ordered list of tags.
//
// Supported comment forms are block comments (/** */ and /* */), runs of line
// comments (//) and markup comments (<!-- -->). A tag starts on a line whose
// first token is @name, outside of fenced code blocks; any other @ is plain
// text.
package jsdoc

import (
	"regexp"
	"strings"

	"github.com/gnana997/sfcdoc/pkg/entry"
)

// Block is a parsed documentation comment.
type Block struct {
	Description string
	Keywords    []entry.Keyword
}

// Find returns the first keyword with one of the given names.
func (b Block) Find(names ...string) (entry.Keyword, bool) {
	for _, kw := range b.Keywords {
		for _, name := range names {
			if kw.Name == name {
				return kw, true
			}
		}
	}
	return entry.Keyword{}, false
}

// All returns every keyword with one of the given names, in order.
func (b Block) All(names ...string) []entry.Keyword {
	var out []entry.Keyword
	for _, kw := range b.Keywords {
		for _, name := range names {
			if kw.Name == name {
				out = append(out, kw)
				break
			}
		}
	}
	return out
}

// Has reports whether a keyword with one of the given names is present.
func (b Block) Has(names ...string) bool {
	_, ok := b.Find(names...)
	return ok
}

var tagLine = regexp.MustCompile(`^\s*@([A-Za-z][\w.-]*)(?:\s+|$)`)

// Parse normalizes a raw comment, markers included, and splits it.
func Parse(raw string) Block {
	return ParseText(Normalize(raw))
}

// ParseText splits already normalized comment text into description and
// keywords.
func ParseText(text string) Block {
	var (
		block    = Block{Keywords: []entry.Keyword{}}
		desc     []string
		current  *entry.Keyword
		body     []string
		inFence  bool
		flushTag = func() {
			if current == nil {
				return
			}
			current.Description = strings.TrimSpace(strings.Join(trimTrailingBlank(body), "\n"))
			block.Keywords = append(block.Keywords, *current)
			current, body = nil, nil
		}
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}

		if !inFence {
			if m := tagLine.FindStringSubmatchIndex(line); m != nil {
				flushTag()
				current = &entry.Keyword{Name: line[m[2]:m[3]]}
				body = []string{line[m[1]:]}
				continue
			}
		}

		if current != nil {
			body = append(body, line)
		} else {
			desc = append(desc, line)
		}
	}
	flushTag()

	block.Description = strings.TrimSpace(strings.Join(trimTrailingBlank(desc), "\n"))
	return block
}

// Normalize strips comment markers and the leading gutter of each line.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, "<!--"):
		raw = strings.TrimPrefix(raw, "<!--")
		raw = strings.TrimSuffix(raw, "-->")
		return dedent(strings.Split(raw, "\n"))

	case strings.HasPrefix(raw, "/*"):
		raw = strings.TrimSuffix(raw, "*/")
		raw = strings.TrimPrefix(raw, "/*")
		raw = strings.TrimLeft(raw, "*")
		return stripGutter(strings.Split(raw, "\n"))

	case strings.HasPrefix(raw, "//"):
		lines := strings.Split(raw, "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "//")
			line = strings.TrimPrefix(line, "/")
			lines[i] = strings.TrimPrefix(line, " ")
		}
		return strings.Join(lines, "\n")
	}

	return raw
}

// stripGutter removes the "* " prefix from block comment lines. Lines
// without a gutter are dedented by their common indentation instead.
func stripGutter(lines []string) string {
	gutter := true
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i == 0 || trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "*") {
			gutter = false
			break
		}
	}

	if !gutter {
		return dedent(lines)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if i == 0 {
			out[i] = strings.TrimSpace(line)
			continue
		}
		line = strings.TrimLeft(line, " \t")
		line = strings.TrimPrefix(line, "*")
		out[i] = strings.TrimRight(strings.TrimPrefix(line, " "), " \t\r")
	}
	return strings.Join(out, "\n")
}

// dedent removes the indentation shared by every non-blank line except the
// first, which sits on the opening marker line.
func dedent(lines []string) string {
	indent := -1
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case i == 0:
			out[i] = strings.TrimSpace(line)
		case strings.TrimSpace(line) == "":
			out[i] = ""
		case indent > 0:
			out[i] = strings.TrimRight(line[indent:], " \t\r")
		default:
			out[i] = strings.TrimRight(line, " \t\r")
		}
	}
	return strings.Join(out, "\n")
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
