package jsdoc

import (
	"sort"
	"strings"
)

// Comment is a raw comment located in a source buffer.
type Comment struct {
	Start uint
	End   uint
	Text  string
}

// Index answers "which comment documents the node starting here" by byte
// position. It is built once per source buffer.
type Index struct {
	source   []byte
	comments []Comment
	parsed   map[int]Block
}

// NewIndex builds an index over comments found in source. Consecutive line
// comments separated only by a single line break are merged into one block.
func NewIndex(source []byte, comments []Comment) *Index {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]Comment, 0, len(sorted))
	for _, c := range sorted {
		if n := len(merged); n > 0 && isLineComment(merged[n-1].Text) && isLineComment(c.Text) {
			prev := merged[n-1]
			if gap := gapText(source, prev.End, c.Start); isBlank(gap) && strings.Count(gap, "\n") == 1 {
				merged[n-1] = Comment{Start: prev.Start, End: c.End, Text: prev.Text + "\n" + c.Text}
				continue
			}
		}
		merged = append(merged, c)
	}

	return &Index{source: source, comments: merged, parsed: make(map[int]Block)}
}

// BlockBefore returns the parsed documentation block preceding pos.
func (ix *Index) BlockBefore(pos uint) (Block, bool) {
	i, ok := ix.before(pos)
	if !ok {
		return Block{}, false
	}
	if b, cached := ix.parsed[i]; cached {
		return b, true
	}
	b := Parse(ix.comments[i].Text)
	ix.parsed[i] = b
	return b, true
}

func (ix *Index) before(pos uint) (int, bool) {
	// first comment ending after pos
	i := sort.Search(len(ix.comments), func(i int) bool { return ix.comments[i].End > pos })
	if i == 0 {
		return 0, false
	}
	i--
	if !isBlank(gapText(ix.source, ix.comments[i].End, pos)) {
		return 0, false
	}
	return i, true
}

func gapText(source []byte, from, to uint) string {
	if from > to || to > uint(len(source)) {
		return "x"
	}
	return string(source[from:to])
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isLineComment(text string) bool {
	return strings.HasPrefix(text, "//")
}
