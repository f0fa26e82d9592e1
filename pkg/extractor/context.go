package extractor

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/jsdoc"
	"github.com/gnana997/sfcdoc/pkg/scope"
)

// Context is the state shared by every extractor working on one component.
type Context struct {
	Source   []byte
	Comments *jsdoc.Index
	Options  Options
	Channel  *Channel
	Module   *scope.Scope

	// ModelProp is the prop name bound by two-way binding.
	ModelProp string

	logger *slog.Logger
}

// NewContext builds the root context for a script. comments are the raw
// comments found in source.
func NewContext(source []byte, comments []jsdoc.Comment, opts Options, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Source:    source,
		Comments:  jsdoc.NewIndex(source, comments),
		Options:   opts,
		Channel:   NewChannel(),
		Module:    scope.New(),
		ModelProp: "value",
		logger:    logger,
	}
}

// Enabled reports whether kind is in the feature set.
func (c *Context) Enabled(kind entry.Kind) bool {
	return c.Options.Enabled(kind)
}

func (c *Context) text(n *ts.Node) string {
	return text(n, c.Source)
}

// comment returns the documentation block preceding anchor.
func (c *Context) comment(anchor *ts.Node) jsdoc.Block {
	if anchor == nil {
		return jsdoc.Block{}
	}
	block, _ := c.Comments.BlockBefore(anchor.StartByte())
	return block
}

// nameTags lists the tags that rename an entry of a given kind.
var nameTags = map[entry.Kind][]string{
	entry.KindMethod:   {jsdoc.TagMethod, jsdoc.TagName},
	entry.KindEvent:    {jsdoc.TagEvent, jsdoc.TagName},
	entry.KindProp:     {jsdoc.TagProp, jsdoc.TagName},
	entry.KindData:     {jsdoc.TagData, jsdoc.TagName},
	entry.KindComputed: {jsdoc.TagComputed, jsdoc.TagName},
}

// describe fills the shared entry fields from block: description,
// visibility, category, unreserved keywords and name overrides.
func (c *Context) describe(e entry.Entry, block jsdoc.Block) {
	base := e.Base()
	base.Description = block.Description
	base.Visibility = block.Visibility(c.Options.visibility())
	base.Keywords = jsdoc.Unreserved(block.Keywords)

	if kw, ok := block.Find(jsdoc.TagCategory); ok {
		base.Category = kw.Description
	}

	tags, ok := nameTags[base.Kind]
	if !ok {
		tags = []string{jsdoc.TagName}
	}
	for _, tag := range tags {
		if kw, ok := block.Find(tag); ok {
			if name := firstLine(kw.Description); name != "" {
				base.Name = name
				return
			}
		}
	}
}

// emit pushes an entry on the channel and logs it.
func (c *Context) emit(e entry.Entry) {
	if c.Channel.Emit(e) {
		c.logger.Debug("entry emitted", "kind", e.EntryKind(), "name", e.EntryName())
	}
}

func (c *Context) diagnose(level Level, n *ts.Node, msg string) {
	c.diagnoseAt(level, line(n), msg)
}

func (c *Context) diagnoseAt(level Level, ln uint, msg string) {
	c.logger.Debug("diagnostic", "level", level, "line", ln, "message", msg)
	c.Channel.Diagnose(level, ln, msg)
}

func (c *Context) unsupported(n *ts.Node, construct string) error {
	return &UnsupportedSyntaxError{Kind: n.Kind(), Context: construct, Line: line(n)}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
